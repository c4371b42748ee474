package jobposts

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

const maxFormBody = 4 << 20

// Handler exposes job posting endpoints.
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

// MountRoutes registers job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/active", h.listActive)
	r.Get("/{id}", h.get)
	r.With(h.guards.Authenticated()...).Get("/dashboard/statistics", h.statistics)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Put("/{id}", h.update)
	})
}

type jobForm struct {
	Title              string `form:"job_title" validate:"required,max=200"`
	Type               string `form:"job_type" validate:"required,oneof=full_time part_time contract internship"`
	Location           string `form:"location" validate:"required,max=200"`
	SalaryLow          int64  `form:"salary_range[low]" validate:"gte=0"`
	SalaryHigh         int64  `form:"salary_range[high]" validate:"gte=0"`
	ExperienceRequired string `form:"experience_required" validate:"required,max=100"`
	LastDate           int64  `form:"last_date" validate:"required,gt=0"`
	Description        string `form:"description" validate:"required"`
	Requirement        string `form:"requirement" validate:"required"`
}

func (f jobForm) input() Input {
	return Input{
		Title:              f.Title,
		Type:               f.Type,
		Location:           f.Location,
		SalaryRange:        SalaryRange{Low: f.SalaryLow, High: f.SalaryHigh},
		ExperienceRequired: f.ExperienceRequired,
		LastDate:           time.Unix(f.LastDate, 0).UTC(),
		Description:        f.Description,
		Requirement:        f.Requirement,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	image, _ := httpx.FormFile(r, "image")
	job, err := h.service.Create(r.Context(), p.AdminID, form.input(), image)
	if err != nil {
		h.fail(w, httpx.UploadError("image", err))
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", job)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	image, _ := httpx.FormFile(r, "image")
	if err := h.service.Update(r.Context(), chi.URLParam(r, "id"), form.input(), image); err != nil {
		h.fail(w, httpx.UploadError("image", err))
		return
	}
	httpx.OK(w, http.StatusOK, "Updated successfully", nil)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), shared.ParsePageRequest(r.URL.Query()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListActive(r.Context(), shared.ParsePageRequest(r.URL.Query()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", job)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", stats)
}

// readForm parses the multipart body into a validated jobForm. Numeric fields
// that do not parse are reported as validation errors.
func (h *Handler) readForm(w http.ResponseWriter, r *http.Request) (jobForm, bool) {
	if err := httpx.ParseMultipart(w, r, maxFormBody); err != nil {
		httpx.RespondError(w, err)
		return jobForm{}, false
	}
	bad := map[string]string{}
	num := func(key string) int64 {
		raw := strings.TrimSpace(r.FormValue(key))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			bad[key] = "must be a number"
		}
		return v
	}
	form := jobForm{
		Title:              r.FormValue("job_title"),
		Type:               r.FormValue("job_type"),
		Location:           r.FormValue("location"),
		SalaryLow:          num("salary_range[low]"),
		SalaryHigh:         num("salary_range[high]"),
		ExperienceRequired: r.FormValue("experience_required"),
		LastDate:           num("last_date"),
		Description:        r.FormValue("description"),
		Requirement:        r.FormValue("requirement"),
	}
	if len(bad) > 0 {
		httpx.RespondError(w, shared.NewValidationError(bad))
		return jobForm{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return jobForm{}, false
	}
	return form, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error("jobposts handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
