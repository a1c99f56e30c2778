package client

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/jalexanderII/zero-todos/models"
)

// MessageCreator is the slice of the Twilio API the client uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioClient struct {
	Client MessageCreator
	L      *logrus.Logger
	number string
}

func NewTwilioClient(l *logrus.Logger, accountSid, authToken, number string) *TwilioClient {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &TwilioClient{Client: rest.Api, L: l, number: number}
}

func (t *TwilioClient) Name() string {
	return "sms"
}

func (t *TwilioClient) Notify(n models.Notification) error {
	if n.RecipientPhone == "" {
		return nil
	}
	resp, err := t.SendSMS(n.RecipientPhone, n.Subject()+"\n\n"+n.Body())
	if err != nil {
		return err
	}
	if !resp.Successful {
		return fmt.Errorf("send sms: %s", resp.ErrorMessage)
	}
	return nil
}

func (t *TwilioClient) SendSMS(to, body string) (*models.SendSMSResponse, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.number)
	params.SetBody(body)

	if _, err := t.Client.CreateMessage(params); err != nil {
		t.L.Errorf("Error sending SMS: %s", err.Error())
		return &models.SendSMSResponse{Successful: false, ErrorMessage: err.Error()}, err
	}
	return &models.SendSMSResponse{Successful: true, ErrorMessage: "none"}, nil
}
