package teams

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

// Handler exposes team endpoints.
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

// MountRoutes registers team routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/teams_list_aggregate", h.aggregate)
	r.With(h.guards.Authenticated()...).Get("/dashboard/statistics", h.statistics)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Get("/teams_list", h.list)
		r.Post("/add", h.add)
		r.Patch("/{id}", h.edit)
		r.Get("/{id}", h.detail)
	})
}

type memberForm struct {
	Name        string `form:"name" validate:"required,personname"`
	Email       string `form:"email" validate:"required,strictemail"`
	Designation string `form:"designation" validate:"required,max=255"`
	Address     string `form:"address" validate:"required,max=255"`
	PhoneNumber string `form:"phoneNumber" validate:"required,phone"`
	Country     string `form:"country" validate:"required,country"`
	CNIC        string `form:"cnic" validate:"required,cnic"`
	Gender      string `form:"gender" validate:"required,oneof=male female other"`
	Religion    string `form:"religion" validate:"required,max=255"`
	JoiningDate int64  `form:"joining_date" validate:"required,gt=0"`
	ExitDate    int64  `form:"exit_date" validate:"gte=0"`
	LinkedIn    string `form:"linkedin" validate:"required,url"`
}

func (f memberForm) member() Member {
	m := Member{
		Name:        f.Name,
		Email:       f.Email,
		Designation: f.Designation,
		Address:     f.Address,
		Country:     f.Country,
		PhoneNumber: f.PhoneNumber,
		CNIC:        f.CNIC,
		Gender:      f.Gender,
		Religion:    f.Religion,
		JoiningDate: time.Unix(f.JoiningDate, 0),
		LinkedIn:    f.LinkedIn,
	}
	if f.ExitDate > 0 {
		exit := time.Unix(f.ExitDate, 0)
		m.ExitDate = &exit
	}
	return m
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	image, _ := httpx.FormFile(r, "profileImage")
	m, err := h.service.Add(r.Context(), p.AdminID, form.member(), image)
	if err != nil {
		h.fail(w, httpx.UploadError("profileImage", err))
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", m)
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}
	image, _ := httpx.FormFile(r, "profileImage")
	if err := h.service.Edit(r.Context(), p.AdminID, chi.URLParam(r, "id"), form.member(), image); err != nil {
		h.fail(w, httpx.UploadError("profileImage", err))
		return
	}
	httpx.OK(w, http.StatusOK, "Updated successfully", nil)
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

func (h *Handler) aggregate(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.Aggregate(r.Context(), shared.ParsePageRequest(r.URL.Query()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", m)
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", stats)
}

func (h *Handler) readForm(w http.ResponseWriter, r *http.Request) (memberForm, bool) {
	if err := httpx.ParseMultipart(w, r, maxFormBody); err != nil {
		httpx.RespondError(w, err)
		return memberForm{}, false
	}
	bad := map[string]string{}
	unix := func(key string) int64 {
		raw := strings.TrimSpace(r.FormValue(key))
		if raw == "" {
			return 0
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			bad[key] = "must be a unix timestamp"
		}
		return v
	}
	form := memberForm{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Designation: r.FormValue("designation"),
		Address:     r.FormValue("address"),
		PhoneNumber: r.FormValue("phoneNumber"),
		Country:     r.FormValue("country"),
		CNIC:        r.FormValue("cnic"),
		Gender:      strings.ToLower(r.FormValue("gender")),
		Religion:    r.FormValue("religion"),
		JoiningDate: unix("joining_date"),
		ExitDate:    unix("exit_date"),
		LinkedIn:    r.FormValue("linkedin"),
	}
	if len(bad) > 0 {
		httpx.RespondError(w, shared.NewValidationError(bad))
		return memberForm{}, false
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.RespondError(w, err)
		return memberForm{}, false
	}
	return form, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error("teams handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
