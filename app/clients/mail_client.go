package client

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"

	"github.com/jalexanderII/zero-todos/models"
)

// SendFunc matches smtp.SendMail so tests can capture outgoing mail.
type SendFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

type MailClient struct {
	L    *logrus.Logger
	addr string
	from string
	auth sasl.Client
	send SendFunc
}

func NewMailClient(l *logrus.Logger, addr, username, password, from string) *MailClient {
	var auth sasl.Client
	if username != "" {
		auth = sasl.NewPlainClient("", username, password)
	}
	return &MailClient{L: l, addr: addr, from: from, auth: auth, send: smtp.SendMail}
}

// WithSender swaps the transport.
func (m *MailClient) WithSender(send SendFunc) *MailClient {
	m.send = send
	return m
}

func (m *MailClient) Name() string {
	return "email"
}

func (m *MailClient) Notify(n models.Notification) error {
	if n.RecipientEmail == "" {
		return nil
	}

	msg, err := m.compose(n)
	if err != nil {
		return err
	}
	if err := m.send(m.addr, m.auth, m.from, []string{n.RecipientEmail}, bytes.NewReader(msg)); err != nil {
		m.L.Errorf("Error sending email to %s: %s", n.RecipientEmail, err.Error())
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *MailClient) compose(n models.Notification) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: m.from}})
	h.SetAddressList("To", []*mail.Address{{Address: n.RecipientEmail}})
	h.SetSubject(n.Subject())
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("compose mail: %w", err)
	}
	if _, err := io.WriteString(w, n.Body()); err != nil {
		return nil, fmt.Errorf("compose mail: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compose mail: %w", err)
	}
	return buf.Bytes(), nil
}
