package mail

import (
	"context"
	"errors"
	"log/slog"
)

var (
	ErrRejected  = errors.New("message rejected")
	ErrThrottled = errors.New("sending throttled")
)

// Message is a plain-text email.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. Used in
// local environments without a mail backend.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "email",
		"from", msg.From,
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}

var _ Sender = (*LogSender)(nil)
