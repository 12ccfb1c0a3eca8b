package notify

import (
	"context"
	"fmt"

	"canna-backoffice-requests/internal/logger"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPMailer) Send(ctx context.Context, to []string, subject, plainText, htmlContent string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.ExternalServiceCall("smtp", "send", "host", s.dialer.Host, "subject", subject, "recipients", len(to))
	err := s.dialer.DialAndSend(s.message(to, subject, plainText, htmlContent))
	logger.ExternalServiceResult("smtp", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

func (s *SMTPMailer) message(to []string, subject, plainText, htmlContent string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainText)
	if htmlContent != "" {
		m.AddAlternative("text/html", htmlContent)
	}
	return m
}
