package jobposts

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

const (
	imageDir      = "jobs"
	maxImageBytes = 2 << 20
)

var imageExt = []string{".jpg", ".jpeg", ".png", ".webp"}

// FileStore keeps uploaded job images.
type FileStore interface {
	Save(subdir string, header *multipart.FileHeader, allowedExt []string, maxBytes int64) (string, error)
	Remove(name string) error
	URL(name string) string
}

// Service implements the job posting use cases.
type Service struct {
	repo   Repository
	files  FileStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a Service. A nil clock means time.Now.
func NewService(repo Repository, files FileStore, logger *slog.Logger, clock func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, files: files, logger: logger, now: clock}
}

// Create stores a new posting authored by adminID.
func (s *Service) Create(ctx context.Context, adminID uuid.UUID, in Input, image *multipart.FileHeader) (JobPost, error) {
	if image == nil {
		return JobPost{}, ErrImageRequired
	}
	if err := s.check(in); err != nil {
		return JobPost{}, err
	}
	name, err := s.files.Save(imageDir, image, imageExt, maxImageBytes)
	if err != nil {
		return JobPost{}, err
	}
	job := apply(JobPost{AdminID: adminID, Image: name}, in)
	created, err := s.repo.Create(ctx, job)
	if err != nil {
		s.discard(name)
		return JobPost{}, err
	}
	return s.present(created), nil
}

// Update replaces the editable fields of a posting. A new image replaces and
// deletes the previous one.
func (s *Service) Update(ctx context.Context, rawID string, in Input, image *multipart.FileHeader) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.check(in); err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	job := apply(current, in)
	var saved string
	if image != nil {
		saved, err = s.files.Save(imageDir, image, imageExt, maxImageBytes)
		if err != nil {
			return err
		}
		job.Image = saved
	}
	if err := s.repo.Update(ctx, job); err != nil {
		s.discard(saved)
		return err
	}
	if saved != "" {
		s.discard(current.Image)
	}
	return nil
}

// Get returns one posting.
func (s *Service) Get(ctx context.Context, rawID string) (JobPost, error) {
	id, err := parseID(rawID)
	if err != nil {
		return JobPost{}, err
	}
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return JobPost{}, err
	}
	return s.present(job), nil
}

// List returns every posting, newest first.
func (s *Service) List(ctx context.Context, page shared.PageRequest) (shared.Page[JobPost], error) {
	return s.list(ctx, ListFilter{}, page)
}

// ListActive returns postings whose last date has not passed.
func (s *Service) ListActive(ctx context.Context, page shared.PageRequest) (shared.Page[JobPost], error) {
	return s.list(ctx, ListFilter{OpenAt: s.now()}, page)
}

// Statistics counts open and closed postings.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.repo.Statistics(ctx, s.now())
}

// Exists reports whether a posting with id is stored.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrContentNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) list(ctx context.Context, filter ListFilter, page shared.PageRequest) (shared.Page[JobPost], error) {
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return shared.Page[JobPost]{}, err
	}
	out := make([]JobPost, len(items))
	for i, j := range items {
		out[i] = s.present(j)
	}
	return shared.Page[JobPost]{Items: out, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

func (s *Service) check(in Input) error {
	if in.SalaryRange.High < in.SalaryRange.Low {
		return ErrInvalidSalaryRange
	}
	if in.LastDate.IsZero() || !in.LastDate.After(s.now()) {
		return ErrInvalidLastDate
	}
	return nil
}

func (s *Service) present(j JobPost) JobPost {
	j.Image = s.files.URL(j.Image)
	return j
}

func (s *Service) discard(name string) {
	if name == "" {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.logger.Warn("remove job image", slog.String("file", name), slog.Any("error", err))
	}
}

func apply(j JobPost, in Input) JobPost {
	j.Title = strings.TrimSpace(in.Title)
	j.Type = in.Type
	j.Location = strings.TrimSpace(in.Location)
	j.SalaryRange = in.SalaryRange
	j.ExperienceRequired = strings.TrimSpace(in.ExperienceRequired)
	j.LastDate = in.LastDate.UTC()
	j.Description = in.Description
	j.Requirement = in.Requirement
	return j
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidJobID
	}
	return id, nil
}
