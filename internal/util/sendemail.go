package util

import (
	"context"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	SMTPHost       string
	SMTPPort       int
	SenderName     string
	SenderEmail    string
	SenderPassword string
}

// Enabled reports whether enough is configured to reach an SMTP server.
func (c MailConfig) Enabled() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0 && c.SenderEmail != ""
}

// SendEmail delivers one plain-text message. gomail has no deadline past the
// dial, so the call returns ctx.Err() once ctx is done and the abandoned
// send finishes on its own.
func SendEmail(ctx context.Context, cfg MailConfig, receiverEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", cfg.SenderEmail, cfg.SenderName)
	mailer.SetHeader("To", receiverEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/plain", body)

	dialer := gomail.NewDialer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SenderEmail,
		cfg.SenderPassword,
	)

	result := make(chan error, 1)
	go func() {
		result <- dialer.DialAndSend(mailer)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
