package products

import (
	"context"
	"strings"
)

// Service looks products up for the demo flow.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetBySlug returns the product or ErrProductNotFound.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Product{}, ErrProductNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}
