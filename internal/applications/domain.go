package applications

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// Application is a candidate's submission against a job posting.
type Application struct {
	ID         uuid.UUID `json:"uuid"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Country    string    `json:"country"`
	CV         string    `json:"cv,omitempty"`
	Date       time.Time `json:"date"`
	PositionID uuid.UUID `json:"positionId"`
	JobTitle   string    `json:"job_title,omitempty"`
	IsRead     bool      `json:"isRead"`
}

// Submission is what a candidate posts.
type Submission struct {
	Name       string
	Email      string
	Phone      string
	Country    string
	PositionID uuid.UUID
}

// Statistics counts applications by read state.
type Statistics struct {
	Total  int `json:"total_applications"`
	Read   int `json:"read_applications"`
	Unread int `json:"unread_applications"`
}

// SearchBy selects the listing filter.
type SearchBy string

const (
	SearchByJobTitle SearchBy = "job_title"
	SearchByDate     SearchBy = "date"
)

var (
	ErrInvalidJobID         = shared.NewDomainError(http.StatusNotFound, "Invalid job id")
	ErrInvalidApplicationID = shared.NewDomainError(http.StatusBadRequest, "Invalid application id")
	ErrCVRequired           = shared.NewDomainError(http.StatusBadRequest, "CV is not uploaded")
	ErrInvalidSearchDate    = shared.NewDomainError(http.StatusBadRequest, "Invalid search date")
)
