package contacts

import (
	"net/http"
	"time"

	"github.com/genesislab/siteadmin/internal/shared"
)

// Contact is a message left through the public contact form.
type Contact struct {
	ID          int64     `json:"contactId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Country     string    `json:"country"`
	PhoneNumber string    `json:"phoneNumber"`
	Message     string    `json:"message"`
	Date        time.Time `json:"date"`
	IsRead      bool      `json:"isRead"`
}

// Statistics counts contacts by read state.
type Statistics struct {
	Total  int `json:"total_contacts"`
	Read   int `json:"read_contacts"`
	Unread int `json:"unread_contacts"`
}

var (
	ErrContactNotFound  = shared.NewDomainError(http.StatusNotFound, "Contact Does not exist")
	ErrInvalidContactID = shared.NewDomainError(http.StatusBadRequest, "Invalid contact id")
)
