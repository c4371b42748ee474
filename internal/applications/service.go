package applications

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

const (
	cvDir      = "cv"
	maxCVBytes = 5 << 20
)

var cvExt = []string{".pdf"}

// Positions reports whether a job posting exists.
type Positions interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// FileStore keeps uploaded CVs.
type FileStore interface {
	Save(subdir string, header *multipart.FileHeader, allowedExt []string, maxBytes int64) (string, error)
	Remove(name string) error
	URL(name string) string
}

// Service implements application submission and review.
type Service struct {
	repo      Repository
	positions Positions
	files     FileStore
	logger    *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, positions Positions, files FileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, positions: positions, files: files, logger: logger}
}

// Submit stores an application for an existing position together with its CV.
func (s *Service) Submit(ctx context.Context, sub Submission, cv *multipart.FileHeader) (Application, error) {
	if cv == nil {
		return Application{}, ErrCVRequired
	}
	ok, err := s.positions.Exists(ctx, sub.PositionID)
	if err != nil {
		return Application{}, err
	}
	if !ok {
		return Application{}, ErrInvalidJobID
	}
	name, err := s.files.Save(cvDir, cv, cvExt, maxCVBytes)
	if err != nil {
		return Application{}, err
	}
	created, err := s.repo.Create(ctx, Application{
		Name:       strings.TrimSpace(sub.Name),
		Email:      strings.ToLower(strings.TrimSpace(sub.Email)),
		Phone:      sub.Phone,
		Country:    sub.Country,
		CV:         name,
		PositionID: sub.PositionID,
	})
	if err != nil {
		if rmErr := s.files.Remove(name); rmErr != nil {
			s.logger.Warn("remove cv", slog.String("file", name), slog.Any("error", rmErr))
		}
		return Application{}, err
	}
	created.CV = s.files.URL(created.CV)
	return created, nil
}

// List returns applications newest first. searchBy "job_title" matches value
// as a substring of the position title; "date" treats value as unix seconds
// and matches the whole UTC day containing it.
func (s *Service) List(ctx context.Context, searchBy SearchBy, value string, page shared.PageRequest) (shared.Page[Application], error) {
	var filter ListFilter
	value = strings.TrimSpace(value)
	if value != "" {
		switch searchBy {
		case SearchByJobTitle:
			filter.JobTitle = value
		case SearchByDate:
			secs, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return shared.Page[Application]{}, ErrInvalidSearchDate
			}
			day := time.Unix(secs, 0).UTC().Truncate(24 * time.Hour)
			filter.From, filter.To = day, day.Add(24*time.Hour)
		}
	}
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return shared.Page[Application]{}, err
	}
	if items == nil {
		items = []Application{}
	}
	return shared.Page[Application]{Items: items, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

// OpenCV marks the application read and returns the public address of its CV.
func (s *Service) OpenCV(ctx context.Context, rawID string) (string, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return "", ErrInvalidApplicationID
	}
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !app.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return "", err
		}
	}
	return s.files.URL(app.CV), nil
}

// Statistics counts read and unread applications.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.repo.Statistics(ctx)
}
