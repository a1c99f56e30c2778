package client

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jalexanderII/zero-todos/models"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestMailClient_Notify(t *testing.T) {
	var (
		gotTo  []string
		gotMsg []byte
	)
	m := NewMailClient(quietLogger(), "smtp.example.com:587", "", "", "todos@example.com").
		WithSender(func(addr string, a sasl.Client, from string, to []string, r io.Reader) error {
			gotTo = to
			var err error
			gotMsg, err = io.ReadAll(r)
			return err
		})

	due := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	err := m.Notify(models.Notification{
		Kind:           models.NotificationCreated,
		Title:          "Ship it",
		Priority:       models.PriorityHigh,
		DueDate:        &due,
		RecipientEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com"}, gotTo)

	mr, err := mail.CreateReader(bytes.NewReader(gotMsg))
	require.NoError(t, err)
	defer mr.Close()

	subject, err := mr.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "New Todo Created: Ship it", subject)

	part, err := mr.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Priority: High")
	assert.Contains(t, string(body), "Due Date: 2030-01-02T15:00:00Z")
}

func TestMailClient_PlainAuthWithCredentials(t *testing.T) {
	var gotAuth sasl.Client
	m := NewMailClient(quietLogger(), "smtp.example.com:587", "mailer", "s3cret", "todos@example.com").
		WithSender(func(_ string, a sasl.Client, _ string, _ []string, _ io.Reader) error {
			gotAuth = a
			return nil
		})

	require.NoError(t, m.Notify(models.Notification{Title: "x", RecipientEmail: "a@example.com"}))
	require.NotNil(t, gotAuth)
	mech, ir, err := gotAuth.Start()
	require.NoError(t, err)
	assert.Equal(t, sasl.Plain, mech)
	assert.Equal(t, "\x00mailer\x00s3cret", string(ir))

	anon := NewMailClient(quietLogger(), "localhost:25", "", "", "todos@example.com")
	assert.Nil(t, anon.auth)
}

func TestMailClient_SkipsMissingRecipient(t *testing.T) {
	called := false
	m := NewMailClient(quietLogger(), "localhost:25", "", "", "todos@example.com").
		WithSender(func(string, sasl.Client, string, []string, io.Reader) error {
			called = true
			return nil
		})

	require.NoError(t, m.Notify(models.Notification{Kind: models.NotificationCompleted, Title: "x"}))
	assert.False(t, called)
}

func TestMailClient_SendError(t *testing.T) {
	m := NewMailClient(quietLogger(), "localhost:25", "", "", "todos@example.com").
		WithSender(func(string, sasl.Client, string, []string, io.Reader) error {
			return errors.New("connection refused")
		})

	err := m.Notify(models.Notification{Title: "x", RecipientEmail: "a@example.com"})
	assert.Error(t, err)
}

type fakeMessages struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, p)
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{}, nil
}

func TestTwilioClient_Notify(t *testing.T) {
	fake := &fakeMessages{}
	c := &TwilioClient{Client: fake, L: quietLogger(), number: "+15550000000"}

	err := c.Notify(models.Notification{
		Kind:           models.NotificationCompleted,
		Title:          "Ship it",
		RecipientPhone: "+15551112222",
	})
	require.NoError(t, err)
	require.Len(t, fake.params, 1)
	assert.Equal(t, "+15551112222", *fake.params[0].To)
	assert.Equal(t, "+15550000000", *fake.params[0].From)
	assert.Contains(t, *fake.params[0].Body, "Todo Completed: Ship it")
}

func TestTwilioClient_Failure(t *testing.T) {
	fake := &fakeMessages{err: errors.New("boom")}
	c := &TwilioClient{Client: fake, L: quietLogger(), number: "+15550000000"}

	resp, err := c.SendSMS("+15551112222", "hi")
	assert.Error(t, err)
	assert.False(t, resp.Successful)
	assert.Equal(t, "boom", resp.ErrorMessage)

	require.NoError(t, c.Notify(models.Notification{Title: "no phone"}))
	assert.Len(t, fake.params, 1)
}
