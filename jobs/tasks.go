package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/genesislab/siteadmin/internal/mailer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypePurgeDemoRequests removes demo requests that never verified their email.
	TaskTypePurgeDemoRequests = "demo:purge_unverified"
)

// PurgeDemoRequestsPayload selects which unverified demo requests to drop.
type PurgeDemoRequestsPayload struct {
	OlderThanDays int `json:"older_than_days"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(msg mailer.Message) (*asynq.Task, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// NewPurgeDemoRequestsTask constructs the housekeeping task.
func NewPurgeDemoRequestsTask(olderThanDays int) (*asynq.Task, error) {
	data, err := json.Marshal(PurgeDemoRequestsPayload{OlderThanDays: olderThanDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePurgeDemoRequests, data), nil
}
