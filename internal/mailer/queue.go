package mailer

import (
	"context"
	"fmt"
)

// Enqueuer hands a message to the background worker.
type Enqueuer interface {
	EnqueueSendEmail(ctx context.Context, msg Message) error
}

// QueueSender defers delivery to the worker process.
type QueueSender struct {
	queue Enqueuer
}

// NewQueueSender wraps an Enqueuer.
func NewQueueSender(queue Enqueuer) *QueueSender {
	return &QueueSender{queue: queue}
}

// Send enqueues msg. A nil error means the task was accepted, not delivered.
func (s *QueueSender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := s.queue.EnqueueSendEmail(ctx, msg); err != nil {
		return fmt.Errorf("mailer: enqueue: %w", err)
	}
	return nil
}
