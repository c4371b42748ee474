package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/genesislab/siteadmin/internal/jobs"
	"github.com/genesislab/siteadmin/internal/mailer"
	"github.com/genesislab/siteadmin/internal/shared"
)

type recordingSender struct {
	msgs []mailer.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

func TestMailJobDelivers(t *testing.T) {
	sender := &recordingSender{}
	job := &MailJob{Sender: sender, Metrics: jobmetrics.NewMetrics(prometheus.NewRegistry())}

	task, err := NewSendEmailTask(mailer.Message{To: []string{"a@b.com"}, Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeSendEmail, task.Type())

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "Hi", sender.msgs[0].Subject)
}

func TestMailJobErrors(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	job := &MailJob{Sender: sender}

	task, err := NewSendEmailTask(mailer.Message{To: []string{"a@b.com"}})
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))

	err = job.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	empty, _ := json.Marshal(mailer.Message{})
	err = job.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, empty))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type fakePurger struct {
	before time.Time
	count  int64
}

func (p *fakePurger) PurgeUnverified(_ context.Context, before time.Time) (int64, error) {
	p.before = before
	return p.count, nil
}

func TestPurgeDemoRequestsJob(t *testing.T) {
	now := time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC)
	purger := &fakePurger{count: 4}
	job := &PurgeDemoRequestsJob{Purger: purger, clock: func() time.Time { return now }}

	task, err := NewPurgeDemoRequestsTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, now.AddDate(0, 0, -30), purger.before)

	task, _ = NewPurgeDemoRequestsTask(7)
	require.NoError(t, job.Handle(context.Background(), task))
	assert.Equal(t, now.AddDate(0, 0, -7), purger.before)
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return s.info, s.err
}

func TestHealthHandler(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3}}, nil, shared.RouteGuards{}).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data queueHealth `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Pending)

	r = chi.NewRouter()
	NewHandler(stubInspector{err: errors.New("redis down")}, slogDiscard(), shared.RouteGuards{}).MountRoutes(r)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthHandlerRequiresSignIn(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	r := chi.NewRouter()
	NewHandler(stubInspector{info: &asynq.QueueInfo{Queue: "default"}}, slogDiscard(), shared.RouteGuards{Authenticate: deny}).MountRoutes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
