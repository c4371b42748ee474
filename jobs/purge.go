package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/genesislab/siteadmin/internal/jobs"
)

// DemoRequestPurger deletes unverified demo requests created before a cutoff.
type DemoRequestPurger interface {
	PurgeUnverified(ctx context.Context, before time.Time) (int64, error)
}

// PurgeDemoRequestsJob is the nightly cleanup of abandoned demo requests.
type PurgeDemoRequestsJob struct {
	Purger  DemoRequestPurger
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// Handle processes TaskTypePurgeDemoRequests tasks.
func (j *PurgeDemoRequestsJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Purger == nil {
		return errors.New("purge demo requests: purger not configured")
	}
	var payload PurgeDemoRequestsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("purge demo requests: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.OlderThanDays <= 0 {
		payload.OlderThanDays = 30
	}

	tracker := j.Metrics.Track(TaskTypePurgeDemoRequests)
	defer func() {
		err = tracker.End(err)
	}()

	cutoff := j.now().AddDate(0, 0, -payload.OlderThanDays)
	removed, err := j.Purger.PurgeUnverified(ctx, cutoff)
	if err != nil {
		return err
	}
	j.Metrics.AddPurged(TaskTypePurgeDemoRequests, removed)
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("purged unverified demo requests", slog.Int64("removed", removed), slog.Time("cutoff", cutoff))
	return nil
}

func (j *PurgeDemoRequestsJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
