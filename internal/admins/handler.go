package admins

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

const maxUploadBody = 4 << 20

// Handler exposes the admin account endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *shared.Validator
	guards    shared.RouteGuards
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, validator *shared.Validator, guards shared.RouteGuards) *Handler {
	return &Handler{logger: logger, service: service, validator: validator, guards: guards}
}

// MountRoutes registers the admin routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/verify_staff_email", h.verifyStaffEmail)
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Authenticated()...)
		r.Post("/change_password", h.changePassword)
		r.Get("/get_2fa_authentication", h.getTwoFactor)
		r.Post("/toggle_2fa", h.toggleTwoFactor)
		r.Get("/profile_picture", h.profilePicture)
		r.Put("/update_profile_picture", h.updateProfilePicture)
		r.Get("/profile", h.profile)
		r.Put("/update_profile", h.updateProfile)
		r.Get("/me", h.me)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Post("/add_staff_member", h.addStaffMember)
		r.Get("/staff_list", h.staffList)
		r.Get("/detail/{id}", h.staffDetail)
		r.Patch("/{id}", h.editStaff)
	})
}

type changePasswordRequest struct {
	CurrentPassword      string `json:"currentPassword" validate:"required"`
	Password             string `json:"password" validate:"required,password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type toggleRequest struct {
	Code string `json:"code" validate:"required"`
}

type updateProfileRequest struct {
	FirstName   string `json:"firstName" validate:"required,personname"`
	LastName    string `json:"lastName" validate:"required,personname"`
	Country     string `json:"country" validate:"required,country"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

type addStaffRequest struct {
	Email  string `json:"email" validate:"required,strictemail"`
	RoleID int64  `json:"roleId" validate:"required,gt=0"`
}

type editStaffRequest struct {
	RoleID int64 `json:"roleId" validate:"required,gt=0"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.ChangePassword(r.Context(), p.AdminID, req.CurrentPassword, req.Password); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Password changed", nil)
}

func (h *Handler) getTwoFactor(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	setup, err := h.service.SetupTwoFactor(r.Context(), p.Email)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", setup)
}

func (h *Handler) toggleTwoFactor(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if !h.decode(w, r, &req) {
		return
	}
	account, err := h.service.AccountByID(r.Context(), p.AdminID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.service.ToggleTwoFactor(r.Context(), account, req.Code); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", map[string]bool{"twoFA": !account.TwoFA})
}

func (h *Handler) profilePicture(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	url, err := h.service.ProfilePicture(r.Context(), p.AdminID)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", map[string]string{"profileImage": url})
}

func (h *Handler) updateProfilePicture(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := httpx.ParseMultipart(w, r, maxUploadBody); err != nil {
		h.fail(w, err)
		return
	}
	header, _ := httpx.FormFile(r, "image")
	url, err := h.service.UpdateProfilePicture(r.Context(), p.AdminID, header)
	if err != nil {
		h.fail(w, httpx.UploadError("image", err))
		return
	}
	httpx.OK(w, http.StatusOK, "Updated successfully", map[string]string{"profileImage": url})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	admin, err := h.service.GetProfile(r.Context(), p.AdminID)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", admin)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	err := h.service.UpdateProfile(r.Context(), p.AdminID, ProfileUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Updated successfully", nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	me, err := h.service.Me(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", me)
}

func (h *Handler) addStaffMember(w http.ResponseWriter, r *http.Request) {
	var req addStaffRequest
	if !h.decode(w, r, &req) {
		return
	}
	code, err := h.service.AddStaffMember(r.Context(), req.Email, req.RoleID)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, "Created successfully", map[string]string{"code": code})
}

func (h *Handler) verifyStaffEmail(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.VerifyStaffEmail(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", staff)
}

func (h *Handler) staffList(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListStaff(r.Context(), shared.ParsePageRequest(r.URL.Query()))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", page)
}

func (h *Handler) staffDetail(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.StaffDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Success", admin)
}

func (h *Handler) editStaff(w http.ResponseWriter, r *http.Request) {
	var req editStaffRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.service.EditStaffRole(r.Context(), chi.URLParam(r, "id"), req.RoleID); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Updated successfully", nil)
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (shared.Principal, bool) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
	}
	return p, ok
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
		h.logger.Error("admins handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
