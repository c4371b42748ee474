package teams

import (
	"context"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

const (
	imageDir      = "teams"
	maxImageBytes = 2 << 20
)

var imageExt = []string{".jpg", ".jpeg", ".png"}

// FileStore keeps uploaded profile images.
type FileStore interface {
	Save(subdir string, header *multipart.FileHeader, allowedExt []string, maxBytes int64) (string, error)
	Remove(name string) error
	URL(name string) string
}

// Service implements team page management.
type Service struct {
	repo   Repository
	files  FileStore
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, files FileStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, files: files, logger: logger}
}

// Add creates a member with a required profile image. Emails are unique.
func (s *Service) Add(ctx context.Context, adminID uuid.UUID, m Member, image *multipart.FileHeader) (Member, error) {
	if image == nil {
		return Member{}, ErrProfileImageRequired
	}
	m = normalize(m)
	if err := checkDates(m); err != nil {
		return Member{}, err
	}
	taken, err := s.repo.EmailTaken(ctx, m.Email, 0)
	if err != nil {
		return Member{}, err
	}
	if taken {
		return Member{}, ErrMemberAlreadyExists
	}
	name, err := s.files.Save(imageDir, image, imageExt, maxImageBytes)
	if err != nil {
		return Member{}, err
	}
	m.ProfileImage, m.AdminID = name, adminID
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		s.discard(name)
		return Member{}, err
	}
	return s.present(created), nil
}

// Edit replaces a member's details. The stored image is kept unless a new
// one is uploaded, in which case the old file is removed.
func (s *Service) Edit(ctx context.Context, adminID uuid.UUID, rawID string, m Member, image *multipart.FileHeader) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	m = normalize(m)
	if err := checkDates(m); err != nil {
		return err
	}
	taken, err := s.repo.EmailTaken(ctx, m.Email, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrMemberAlreadyExists
	}
	m.ID, m.AdminID, m.ProfileImage = id, adminID, current.ProfileImage
	var saved string
	if image != nil {
		if saved, err = s.files.Save(imageDir, image, imageExt, maxImageBytes); err != nil {
			return err
		}
		m.ProfileImage = saved
	}
	if err := s.repo.Update(ctx, m); err != nil {
		s.discard(saved)
		return err
	}
	if saved != "" {
		s.discard(current.ProfileImage)
	}
	return nil
}

// Detail returns one member.
func (s *Service) Detail(ctx context.Context, rawID string) (Member, error) {
	id, err := parseID(rawID)
	if err != nil {
		return Member{}, err
	}
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return Member{}, err
	}
	return s.present(m), nil
}

// List returns members newest first. An empty result is ErrContentNotFound.
func (s *Service) List(ctx context.Context, search string, page shared.PageRequest) (shared.Page[Member], error) {
	items, total, err := s.repo.List(ctx, ListFilter{Search: search}, page)
	if err != nil {
		return shared.Page[Member]{}, err
	}
	if len(items) == 0 {
		return shared.Page[Member]{}, shared.ErrContentNotFound
	}
	for i := range items {
		items[i] = s.present(items[i])
	}
	return shared.Page[Member]{Items: items, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

// Aggregate lists the members who have not left, for the public team page.
func (s *Service) Aggregate(ctx context.Context, page shared.PageRequest) (shared.Page[PublicMember], error) {
	items, total, err := s.repo.List(ctx, ListFilter{ActiveOnly: true}, page)
	if err != nil {
		return shared.Page[PublicMember]{}, err
	}
	out := make([]PublicMember, len(items))
	for i, m := range items {
		out[i] = PublicMember{
			ID:           m.ID,
			Name:         m.Name,
			Designation:  m.Designation,
			Country:      m.Country,
			LinkedIn:     m.LinkedIn,
			ProfileImage: s.files.URL(m.ProfileImage),
		}
	}
	return shared.Page[PublicMember]{Items: out, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

// Statistics counts current and former members.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.repo.Statistics(ctx)
}

func (s *Service) present(m Member) Member {
	m.ProfileImage = s.files.URL(m.ProfileImage)
	return m
}

func (s *Service) discard(name string) {
	if name == "" {
		return
	}
	if err := s.files.Remove(name); err != nil {
		s.logger.Warn("remove team image", slog.String("file", name), slog.Any("error", err))
	}
}

func normalize(m Member) Member {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Designation = strings.TrimSpace(m.Designation)
	m.Address = strings.TrimSpace(m.Address)
	m.JoiningDate = m.JoiningDate.UTC()
	if m.ExitDate != nil {
		exit := m.ExitDate.UTC()
		m.ExitDate = &exit
	}
	return m
}

func checkDates(m Member) error {
	if m.ExitDate != nil && m.ExitDate.Before(m.JoiningDate) {
		return ErrInvalidExitDate
	}
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidMemberID
	}
	return id, nil
}
