package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndRemove(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "http://localhost:8080/")
	require.NoError(t, err)

	name, err := store.Save("cv", fileHeader(t, "My Resume.pdf", []byte("%PDF-1.4")), []string{".pdf"}, 1024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "cv/My-Resume-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.Equal(t, "http://localhost:8080/uploads/"+name, store.URL(name))

	data, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.Remove(name))
	require.NoError(t, store.Remove(name))
	_, err = os.Stat(store.Path(name))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveRejects(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	_, err = store.Save("cv", fileHeader(t, "cv.exe", []byte("x")), []string{".pdf"}, 1024)
	assert.ErrorIs(t, err, ErrExtensionNotAllowed)

	_, err = store.Save("cv", fileHeader(t, "cv.pdf", bytes.Repeat([]byte("a"), 2048)), []string{".pdf"}, 1024)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestPathStaysUnderRoot(t *testing.T) {
	store := &Local{Root: "/srv/uploads"}
	assert.Equal(t, "/srv/uploads/etc/passwd", store.Path("../../etc/passwd"))
}
