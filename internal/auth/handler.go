package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *shared.Validator
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validator *shared.Validator) *Handler {
	return &Handler{logger: logger, service: service, validator: validator}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
	r.Post("/forgot_password", h.forgotPassword)
	r.Get("/reset_password/check", h.checkResetToken)
	r.Post("/reset_password", h.resetPassword)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Code     string `json:"code" validate:"omitempty,numeric,len=6"`
}

type registerRequest struct {
	Code                 string `json:"code" validate:"required"`
	FirstName            string `json:"firstName" validate:"required,personname"`
	LastName             string `json:"lastName" validate:"required,personname"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
	Country              string `json:"country" validate:"required,country"`
	PhoneNumber          string `json:"phoneNumber" validate:"required,phone"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.service.Login(r.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", session)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	admin, err := h.service.Register(r.Context(), req.Code, admins.NewAccount{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", admin)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Please Check Your Email To Reset Password", nil)
}

func (h *Handler) checkResetToken(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if err := h.service.CheckResetToken(r.Context(), q.Get("email"), q.Get("token")); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ResetPassword(r.Context(), req.Email, req.Token, req.Password); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Password changed", nil)
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

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error("auth handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
