package teams

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// Member is a person shown on the company team page.
type Member struct {
	ID           int64      `json:"teamId"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Designation  string     `json:"designation"`
	Address      string     `json:"address"`
	Country      string     `json:"country"`
	PhoneNumber  string     `json:"phoneNumber"`
	CNIC         string     `json:"cnic"`
	Gender       string     `json:"gender"`
	Religion     string     `json:"religion"`
	JoiningDate  time.Time  `json:"joining_date"`
	ExitDate     *time.Time `json:"exit_date"`
	LinkedIn     string     `json:"linkedin"`
	ProfileImage string     `json:"profileImage"`
	AdminID      uuid.UUID  `json:"-"`
}

// Active reports whether the member has not left.
func (m Member) Active() bool {
	return m.ExitDate == nil
}

// PublicMember is the subset of Member shown on the public site.
type PublicMember struct {
	ID           int64  `json:"teamId"`
	Name         string `json:"name"`
	Designation  string `json:"designation"`
	Country      string `json:"country"`
	LinkedIn     string `json:"linkedin"`
	ProfileImage string `json:"profileImage"`
}

// Statistics counts members by whether they have left.
type Statistics struct {
	Total    int `json:"totalMembers"`
	Active   int `json:"activeMembers"`
	Inactive int `json:"inactiveMembers"`
}

var (
	ErrMemberNotFound       = shared.NewDomainError(http.StatusNotFound, "Team member Does not exist")
	ErrMemberAlreadyExists  = shared.NewDomainError(http.StatusBadRequest, "Team member already exists")
	ErrInvalidMemberID      = shared.NewDomainError(http.StatusBadRequest, "Query Param id is invalid")
	ErrProfileImageRequired = shared.NewDomainError(http.StatusBadRequest, "Profile image is required")
	ErrInvalidExitDate      = shared.NewDomainError(http.StatusBadRequest, "Exit date must be after joining date")
)
