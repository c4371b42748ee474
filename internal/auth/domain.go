package auth

import (
	"errors"
	"net/http"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Session is returned by a successful login.
type Session struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
	Admin       admins.Admin `json:"user"`
}

var (
	ErrTwoFactorRequired  = shared.NewDomainError(http.StatusUnauthorized, "Two factor authentication code required")
	ErrEmailNotRegistered = shared.NewDomainError(http.StatusNotFound, "Email not registered")
	ErrResetLinkExpired   = shared.NewDomainError(http.StatusNotFound, "This Reset Password Link Has Been Expired")

	// ErrInvalidToken is returned for bearer tokens that fail verification.
	ErrInvalidToken = errors.New("auth: invalid token")
)
