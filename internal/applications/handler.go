package applications

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

const maxFormBody = 6 << 20

// Handler exposes application endpoints.
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

// MountRoutes registers application routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.submit)
	r.With(h.guards.Authenticated()...).Get("/dashboard/statistics", h.statistics)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Get("/", h.list)
		r.Get("/cv/{id}", h.cv)
	})
}

type submitForm struct {
	Name       string `form:"name" validate:"required,personname"`
	Email      string `form:"email" validate:"required,strictemail"`
	Country    string `form:"country" validate:"required,country"`
	Phone      string `form:"phone" validate:"required,phone"`
	PositionID string `form:"positionId" validate:"required,uuid"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := httpx.ParseMultipart(w, r, maxFormBody); err != nil {
		httpx.RespondError(w, err)
		return
	}
	form := submitForm{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Country:    r.FormValue("country"),
		Phone:      r.FormValue("phone"),
		PositionID: r.FormValue("positionId"),
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	cv, _ := httpx.FormFile(r, "cv")
	app, err := h.service.Submit(r.Context(), Submission{
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		Country:    form.Country,
		PositionID: uuid.MustParse(form.PositionID),
	}, cv)
	if err != nil {
		h.fail(w, httpx.UploadError("cv", err))
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", app)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.service.List(r.Context(), SearchBy(q.Get("search_by")), q.Get("value"), shared.ParsePageRequest(q))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) cv(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.OpenCV(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", map[string]string{"url": url})
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
		h.logger.Error("applications handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
