package shared

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

// DomainError is an expected business failure. Status is the HTTP status it is
// reported with and Code the stable application code clients switch on.
type DomainError struct {
	Code    int
	Status  int
	Message string
}

// NewDomainError builds a DomainError whose code equals its status.
func NewDomainError(status int, message string) *DomainError {
	return &DomainError{Code: status, Status: status, Message: message}
}

// NewCodedError builds a DomainError with an application code distinct from the
// HTTP status.
func NewCodedError(status, code int, message string) *DomainError {
	return &DomainError{Code: code, Status: status, Message: message}
}

func (e *DomainError) Error() string {
	return e.Message
}

// IsDomainError reports whether err carries a DomainError.
func IsDomainError(err error) bool {
	var derr *DomainError
	return errors.As(err, &derr)
}

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = NewDomainError(http.StatusNotFound, "Not found")
	// ErrContentNotFound is returned by listings that have nothing to show.
	ErrContentNotFound = NewDomainError(http.StatusNotFound, "Content not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = NewDomainError(http.StatusUnauthorized, "Invalid email or password")
	// ErrUnauthorized is returned when no valid principal is attached to the request.
	ErrUnauthorized = NewDomainError(http.StatusUnauthorized, "Unauthorized")
	// ErrPermissionDenied is returned when the principal's role lacks the route.
	ErrPermissionDenied = NewDomainError(http.StatusForbidden, "You do not have permission to access this resource")
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError wraps field messages into a ValidationError.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
