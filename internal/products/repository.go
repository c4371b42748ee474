package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/genesislab/siteadmin/internal/platform/db"
)

// Repository reads products.
type Repository interface {
	GetBySlug(ctx context.Context, slug string) (Product, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Product, error) {
	var p Product
	err := r.db.QueryRow(ctx, `SELECT id, name, slug, demo_url FROM white_label_products WHERE slug = $1`, slug).
		Scan(&p.ID, &p.Name, &p.Slug, &p.DemoURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("products: get by slug: %w", err)
	}
	return p, nil
}
