// Package products holds the white-label products prospects can request demos of.
package products

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// Product is a white-label product addressed by its slug.
type Product struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	DemoURL string    `json:"demoURL"`
}

// ErrProductNotFound is returned for unknown slugs.
var ErrProductNotFound = shared.NewCodedError(http.StatusBadRequest, 410, "Product does not exist")
