package notifications

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridHost = "https://api.sendgrid.com"

// EmailSender отправка писем через SendGrid
type EmailSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

// NewEmailSender создает отправителя писем.
// host можно переопределить (пустая строка = боевой API).
func NewEmailSender(apiKey, host, fromEmail, fromName string) *EmailSender {
	if host == "" {
		host = sendgridHost
	}
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"

	return &EmailSender{
		client:    &sendgrid.Client{Request: req},
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send отправляет одно письмо
func (s *EmailSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.Name, msg.To)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := s.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("%w: email - execute request: %v", ErrSendFailed, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: email - status %d: %s", ErrSendFailed, resp.StatusCode, resp.Body)
	}

	return nil
}
