package demorequests

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genesislab/siteadmin/internal/shared"
	"github.com/genesislab/siteadmin/internal/tokenstore"
)

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       string `json:"data"`
}

type problem struct {
	Status int `json:"status"`
	Code   int `json:"code"`
}

func newTestRouter(t *testing.T) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(Deps{
		Products: productMap{"demo-x": {ID: uuid.New(), Slug: "demo-x", DemoURL: "https://demo-x.example.com"}},
		Repo:     newMemRepo(),
		Tokens:   tokenstore.NewRedisStore(client),
		Mail:     &mailbox{codes: map[string]string{}},
		Logger:   logger,
	})
	r := chi.NewRouter()
	r.Route("/api/request-demo", NewHandler(logger, svc, shared.NewValidator()).MountRoutes)
	return r, mr
}

func post(t *testing.T, h http.Handler, path string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerFlow(t *testing.T) {
	h, mr := newTestRouter(t)

	rec := post(t, h, "/api/request-demo/email_verification/demo-x", map[string]string{"email": "u@test.com", "name": "User"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var issued envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issued))
	require.Len(t, issued.Data, 6)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "OTP:")

	rec = post(t, h, "/api/request-demo/verify_email/demo-x", map[string]string{"email": "u@test.com", "code": issued.Data}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var verified envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verified))
	require.NotEmpty(t, verified.Data)

	keys = mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "DEMO_TOKEN:")

	rec = post(t, h, "/api/request-demo/verify_demo_link/demo-x", map[string]string{"email": "u@test.com"}, "Bearer "+verified.Data)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var redeemed envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &redeemed))
	assert.Equal(t, "https://demo-x.example.com", redeemed.Data)

	rec = post(t, h, "/api/request-demo/verify_demo_link/demo-x", map[string]string{"email": "u@test.com"}, verified.Data)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerErrorCodes(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := post(t, h, "/api/request-demo/email_verification/missing", map[string]string{"email": "u@test.com", "name": "User"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var p problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 410, p.Code)

	rec = post(t, h, "/api/request-demo/verify_email/demo-x", map[string]string{"email": "u@test.com", "code": "123456"}, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, 412, p.Code)

	rec = post(t, h, "/api/request-demo/verify_email/demo-x", map[string]string{"email": "u@test.com", "code": "12ab"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/api/request-demo/verify_demo_link/demo-x", map[string]string{"email": "u@test.com"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, "/api/request-demo/email_verification/demo-x", map[string]string{"email": "not-an-email", "name": "User"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStoreOutageIsServerError(t *testing.T) {
	h, mr := newTestRouter(t)
	mr.Close()

	rec := post(t, h, "/api/request-demo/email_verification/demo-x", map[string]string{"email": "u@test.com", "name": "User"}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

