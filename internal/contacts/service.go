package contacts

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/genesislab/siteadmin/internal/mailer"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Notifier forwards new contacts to the site inbox.
type Notifier interface {
	SendContactNotification(ctx context.Context, notice mailer.ContactNotice) error
}

// Service implements the contact form use cases.
type Service struct {
	repo   Repository
	notify Notifier
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, notify Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notify: notify, logger: logger}
}

// Add stores a contact and notifies the inbox. A failed notification is
// logged; the stored contact is still returned.
func (s *Service) Add(ctx context.Context, c Contact) (Contact, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Message = strings.TrimSpace(c.Message)
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Contact{}, err
	}
	err = s.notify.SendContactNotification(ctx, mailer.ContactNotice{
		Name:        created.Name,
		Email:       created.Email,
		PhoneNumber: created.PhoneNumber,
		Country:     created.Country,
		Message:     created.Message,
		Date:        created.Date,
	})
	if err != nil {
		s.logger.Error("contact notification", slog.Int64("contact_id", created.ID), slog.Any("error", err))
	}
	return created, nil
}

// List returns contacts newest first. An empty result is ErrContentNotFound.
func (s *Service) List(ctx context.Context, search string, page shared.PageRequest) (shared.Page[Contact], error) {
	items, total, err := s.repo.List(ctx, search, page)
	if err != nil {
		return shared.Page[Contact]{}, err
	}
	if len(items) == 0 {
		return shared.Page[Contact]{}, shared.ErrContentNotFound
	}
	return shared.Page[Contact]{Items: items, Pagination: shared.NewPagination(page.Page, page.Limit, total)}, nil
}

// Detail returns one contact and marks it read.
func (s *Service) Detail(ctx context.Context, rawID string) (Contact, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return Contact{}, ErrInvalidContactID
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	if !c.IsRead {
		if err := s.repo.MarkRead(ctx, id); err != nil {
			return Contact{}, err
		}
		c.IsRead = true
	}
	return c, nil
}

// Statistics counts read and unread contacts.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	return s.repo.Statistics(ctx)
}
