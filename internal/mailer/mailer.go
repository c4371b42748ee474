// Package mailer composes and delivers transactional email.
package mailer

import (
	"context"
	"errors"
)

// ErrNoRecipients is returned for messages without a To address.
var ErrNoRecipients = errors.New("mailer: no recipients")

// Message is a rendered email. It doubles as the queued task payload.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"replyTo,omitempty"`
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
