package mail

import (
	"context"
	"fmt"

	gomail "github.com/go-mail/mail/v2"
)

// SMTPSender delivers mail through an SMTP relay. Each Send dials a new
// connection.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, username, password)}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(buildMessage(msg)); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func buildMessage(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

var _ Sender = (*SMTPSender)(nil)
