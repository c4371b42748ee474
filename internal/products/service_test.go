package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapRepo map[string]Product

func (m mapRepo) GetBySlug(_ context.Context, slug string) (Product, error) {
	p, ok := m[slug]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func TestGetBySlug(t *testing.T) {
	id := uuid.New()
	svc := NewService(mapRepo{"demo-x": {ID: id, Slug: "demo-x", DemoURL: "https://demo.example.com"}})

	p, err := svc.GetBySlug(context.Background(), " demo-x ")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
	_, err = svc.GetBySlug(context.Background(), "")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 410, ErrProductNotFound.Code)
}
