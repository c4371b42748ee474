package contacts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Handler exposes the contact endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *shared.Validator
	guards    shared.RouteGuards
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validator *shared.Validator, guards shared.RouteGuards) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, validator: validator, guards: guards}
}

// MountRoutes registers contact routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/add", h.add)
	r.With(h.guards.Authenticated()...).Get("/dashboard/statistics", h.statistics)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Get("/contact_list", h.list)
		r.Get("/{id}", h.detail)
	})
}

type addRequest struct {
	Name        string `json:"name" validate:"required,personname"`
	Email       string `json:"email" validate:"required,strictemail"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
	Country     string `json:"country" validate:"required,country"`
	Message     string `json:"message" validate:"required,max=5000"`
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.service.Add(r.Context(), Contact{
		Name:        req.Name,
		Email:       req.Email,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
		Message:     req.Message,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", c)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), q.Get("search"), shared.ParsePageRequest(q))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", c)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", stats)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error("contacts handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
