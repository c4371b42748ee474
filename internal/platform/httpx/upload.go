package httpx

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/genesislab/siteadmin/internal/platform/storage"
	"github.com/genesislab/siteadmin/internal/shared"
)

const multipartMemory = 8 << 20

// ParseMultipart reads a multipart body of at most maxBytes.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return shared.NewValidationError(map[string]string{"body": "invalid multipart payload"})
	}
	return nil
}

// FormFile returns the first file posted under field, if any.
func FormFile(r *http.Request, field string) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, false
	}
	return r.MultipartForm.File[field][0], true
}

// UploadError turns storage rejections into a validation error on field.
func UploadError(field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return shared.NewValidationError(map[string]string{field: "file is too large"})
	case errors.Is(err, storage.ErrExtensionNotAllowed):
		return shared.NewValidationError(map[string]string{field: "file type is not allowed"})
	default:
		return err
	}
}
