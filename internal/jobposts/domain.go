package jobposts

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// SalaryRange is stored as jsonb.
type SalaryRange struct {
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

// JobPost is an open position published on the careers page.
type JobPost struct {
	ID                 uuid.UUID   `json:"uuid"`
	Title              string      `json:"job_title"`
	Type               string      `json:"job_type"`
	Image              string      `json:"image"`
	Location           string      `json:"location"`
	SalaryRange        SalaryRange `json:"salary_range"`
	ExperienceRequired string      `json:"experience_required"`
	LastDate           time.Time   `json:"last_date"`
	Description        string      `json:"description"`
	Requirement        string      `json:"requirement"`
	AdminID            uuid.UUID   `json:"-"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// Input is the editable part of a JobPost.
type Input struct {
	Title              string
	Type               string
	Location           string
	SalaryRange        SalaryRange
	ExperienceRequired string
	LastDate           time.Time
	Description        string
	Requirement        string
}

// Statistics counts postings by whether they are still open.
type Statistics struct {
	Total    int `json:"total_jobs"`
	Active   int `json:"active_jobs"`
	Inactive int `json:"inactive_jobs"`
}

var (
	ErrInvalidJobID       = shared.NewDomainError(http.StatusBadRequest, "Invalid job id")
	ErrInvalidSalaryRange = shared.NewDomainError(http.StatusBadRequest, "Invalid salary range. High salary should be greater than low salary.")
	ErrInvalidLastDate    = shared.NewDomainError(http.StatusBadRequest, "Invalid last date")
	ErrImageRequired      = shared.NewDomainError(http.StatusBadRequest, "Image is required")
)
