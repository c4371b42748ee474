package demorequests

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Handler exposes the public demo request endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *shared.Validator
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validator *shared.Validator) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// MountRoutes registers the demo request routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/email_verification/{slug}", h.emailVerification)
	r.Post("/verify_email/{slug}", h.verifyEmail)
	r.Post("/verify_demo_link/{slug}", h.verifyDemoLink)
}

type emailRequest struct {
	Email string `json:"email" validate:"required,strictemail"`
}

type issueRequest struct {
	Email string `json:"email" validate:"required,strictemail"`
	Name  string `json:"name" validate:"required,max=100"`
}

type verifyRequest struct {
	Email string `json:"email" validate:"required,strictemail"`
	Code  string `json:"code" validate:"required,numeric,len=6"`
}

func (h *Handler) emailVerification(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !h.decode(w, r, &req) {
		return
	}
	code, err := h.service.IssueEmailVerification(r.Context(), chi.URLParam(r, "slug"), req.Email, req.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", code)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !h.decode(w, r, &req) {
		return
	}
	token, err := h.service.VerifyEmailCode(r.Context(), chi.URLParam(r, "slug"), req.Email, req.Code)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", token)
}

func (h *Handler) verifyDemoLink(w http.ResponseWriter, r *http.Request) {
	bearer := httpx.BearerToken(r)
	if bearer == "" {
		httpx.RespondError(w, shared.NewValidationError(map[string]string{"authorization": "is required"}))
		return
	}
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}
	demoURL, err := h.service.RedeemDemoLink(r.Context(), chi.URLParam(r, "slug"), req.Email, bearer)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", demoURL)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	return true
}
