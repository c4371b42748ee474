package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/genesislab/siteadmin/internal/jobs"
	"github.com/genesislab/siteadmin/internal/mailer"
)

// MailJob delivers queued email with a synchronous sender.
type MailJob struct {
	Sender  mailer.Sender
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskTypeSendEmail tasks.
func (j *MailJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Sender == nil {
		return errors.New("mail job: sender not configured")
	}
	var msg mailer.Message
	if err := json.Unmarshal(t.Payload(), &msg); err != nil {
		return fmt.Errorf("mail job: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail job: %v: %w", mailer.ErrNoRecipients, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskTypeSendEmail)
	defer func() {
		err = tracker.End(err)
	}()

	if err = j.Sender.Send(ctx, msg); err != nil {
		j.logger().Error("send email", slog.String("subject", msg.Subject), slog.Any("error", err))
		return err
	}
	j.logger().Info("email sent", slog.String("subject", msg.Subject), slog.Int("recipients", len(msg.To)))
	return nil
}

func (j *MailJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeSendEmail))
	}
	return slog.Default().With(slog.String("job", TaskTypeSendEmail))
}
