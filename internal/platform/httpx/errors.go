package httpx

import (
	"errors"
	"net/http"

	"github.com/genesislab/siteadmin/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807. Anything
// that is not a domain or validation error is reported as a bare 500.
func RespondError(w http.ResponseWriter, err error) {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: verr.Error(),
			Code:   http.StatusBadRequest,
			Errors: verr.Fields,
		})
		return
	}

	var derr *shared.DomainError
	if errors.As(err, &derr) {
		JSON(w, derr.Status, ProblemDetail{
			Title:  http.StatusText(derr.Status),
			Status: derr.Status,
			Detail: derr.Message,
			Code:   derr.Code,
		})
		return
	}

	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

// IsClientError reports whether err will be rendered as a 4xx response.
func IsClientError(err error) bool {
	var verr *shared.ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var derr *shared.DomainError
	return errors.As(err, &derr)
}
