// Package storage keeps uploaded files on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds its size limit.
	ErrFileTooLarge = errors.New("storage: file too large")
	// ErrExtensionNotAllowed is returned for uploads with an unexpected extension.
	ErrExtensionNotAllowed = errors.New("storage: file type not allowed")
)

// Local stores files beneath Root and addresses them by slash-separated names
// relative to it, for example "cv/resume-1a2b3c4d.pdf".
type Local struct {
	Root    string
	BaseURL string
}

// NewLocal ensures root exists.
func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save copies the uploaded file into subdir under a randomised name and
// returns that name. allowedExt entries are lower-case and include the dot.
func (s *Local) Save(subdir string, header *multipart.FileHeader, allowedExt []string, maxBytes int64) (string, error) {
	if header == nil {
		return "", errors.New("storage: missing file")
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if len(allowedExt) > 0 && !contains(allowedExt, ext) {
		return "", ErrExtensionNotAllowed
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.Root, filepath.Clean("/"+subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}

	name := fileName(header.Filename, ext)
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	written, err := io.Copy(dst, io.LimitReader(src, maxOrUnbounded(maxBytes)+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && maxBytes > 0 && written > maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", err
	}
	return path.Join(strings.Trim(subdir, "/"), name), nil
}

// Remove deletes a stored file; missing files are ignored.
func (s *Local) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(s.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// Path returns the absolute disk location of name.
func (s *Local) Path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path.Clean("/"+name)))
}

// URL returns the public address of name.
func (s *Local) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.BaseURL + "/uploads/" + strings.TrimLeft(name, "/")
}

func fileName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, base)
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext)
}

func maxOrUnbounded(maxBytes int64) int64 {
	if maxBytes <= 0 {
		return 1<<63 - 2
	}
	return maxBytes
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
