// Package demorequests runs the email verification flow that unlocks a
// white-label product demo.
package demorequests

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/shared"
)

// Request tracks one prospect's progress for one product.
type Request struct {
	ID            uuid.UUID
	Name          string
	Email         string
	EmailVerified bool
	Phone         string
	PhoneVerified bool
	ProductID     uuid.UUID
	CreatedAt     time.Time
}

var (
	ErrEmailAlreadyVerified    = shared.NewCodedError(http.StatusBadRequest, 411, "Email already verified")
	ErrVerificationCodeExpired = shared.NewCodedError(http.StatusBadRequest, 412, "Email verification code Has Been Expired")
	ErrInvalidVerificationCode = shared.NewCodedError(http.StatusBadRequest, 413, "Invalid verification code")
	ErrInvalidToken            = shared.NewCodedError(http.StatusBadRequest, 414, "Invalid token")

	// ErrRequestNotFound is the repository miss; the service reports it to
	// callers as ErrVerificationCodeExpired.
	ErrRequestNotFound = errors.New("demorequests: request not found")
	// ErrDuplicateRequest is returned by Create when (email, product) already exists.
	ErrDuplicateRequest = errors.New("demorequests: duplicate request")
)
