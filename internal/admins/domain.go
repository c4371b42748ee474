package admins

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Admin is a back-office account.
type Admin struct {
	ID              uuid.UUID `json:"uuid"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Country         string    `json:"country"`
	PhoneNumber     string    `json:"phoneNumber"`
	ProfileImage    string    `json:"profileImage,omitempty"`
	RoleID          int64     `json:"roleId"`
	RoleName        string    `json:"roleName,omitempty"`
	TwoFA           bool      `json:"twoFA"`
	TwoFactorSecret string    `json:"-"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FullName joins first and last name.
func (a Admin) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Country     string
	PhoneNumber string
}

// Staff is a pending invitation waiting to be redeemed by registration.
type Staff struct {
	ID          uuid.UUID `json:"-"`
	Email       string    `json:"email"`
	RoleID      int64     `json:"roleId"`
	ProfileCode string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TwoFactorSetup is the enrolment data shown to the admin.
type TwoFactorSetup struct {
	URI string `json:"toTpURI"`
	Key string `json:"key"`
}

// Me is the signed-in admin with the effective permissions of their role.
type Me struct {
	Admin          Admin                        `json:"user"`
	AllPermissions bool                         `json:"allPermissions"`
	Permissions    map[string][]rbac.Permission `json:"permissions"`
}

var (
	ErrAdminNotFound          = shared.NewDomainError(http.StatusNotFound, "User with specified email does not exists")
	ErrAdminAlreadyExists     = shared.NewDomainError(http.StatusBadRequest, "User with the same email already exists")
	ErrStaffNotFound          = shared.NewDomainError(http.StatusNotFound, "Staff member Does not exist")
	ErrInvalidStaffID         = shared.NewDomainError(http.StatusBadRequest, "Invalid staff id")
	ErrStaffAlreadyExists     = shared.NewDomainError(http.StatusBadRequest, "Staff member with the same email already exists")
	ErrInvalidStaffCode       = shared.NewDomainError(http.StatusNotFound, "Invalid verification code")
	ErrPasswordMismatch       = shared.NewDomainError(http.StatusUnauthorized, "Current Password Does not Match")
	ErrTwoFactorCodeIncorrect = shared.NewDomainError(http.StatusBadRequest, "Code is not correct")
	ErrProfileImageRequired   = shared.NewDomainError(http.StatusBadRequest, "Profile picture not uploaded")

	// errDuplicateEmail is returned by the repository on a unique violation.
	errDuplicateEmail = errors.New("admins: duplicate email")
)
