package notify

import (
	"context"
	"fmt"

	"canna-backoffice-requests/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends plain administrative emails.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, plainText, htmlContent string) error
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridMailer) Send(ctx context.Context, to []string, subject, plainText, htmlContent string) error {
	if len(to) == 0 {
		return nil
	}
	message := buildMessage(mail.NewEmail(s.fromName, s.fromEmail), to, subject, plainText, htmlContent)

	logger.ExternalServiceCall("sendgrid", "send", "subject", subject, "recipients", len(to))
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildMessage(from *mail.Email, to []string, subject, plainText, htmlContent string) *mail.SGMailV3 {
	message := mail.NewV3Mail()
	message.SetFrom(from)
	message.Subject = subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	message.AddPersonalizations(p)

	message.AddContent(mail.NewContent("text/plain", plainText))
	if htmlContent != "" {
		message.AddContent(mail.NewContent("text/html", htmlContent))
	}
	return message
}

// NopMailer is used when no mail provider is configured.
type NopMailer struct{}

func (NopMailer) Send(_ context.Context, to []string, subject, _, _ string) error {
	logger.Debug("Mail disabled, skipping", "subject", subject, "recipients", len(to))
	return nil
}
