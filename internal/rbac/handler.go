package rbac

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/genesislab/siteadmin/internal/platform/httpx"
	"github.com/genesislab/siteadmin/internal/shared"
)

// Handler exposes role and permission endpoints.
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

// MountRoutes registers role and permission routes on the admin router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Authenticated()...)
		r.Get("/roles", h.listRoles)
		r.Get("/role_permission/{roleId}", h.getRolePermissions)
		r.Get("/permission_list", h.permissionList)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guards.Permitted()...)
		r.Get("/permissions", h.listPermissions)
		r.Put("/role_permission/{roleId}", h.setRolePermissions)
	})
}

type setPermissionsRequest struct {
	Permissions []int64 `json:"permissions" validate:"required,dive,gt=0"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Roles", roles)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.ListPermissionsGrouped(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permissions", grouped)
}

func (h *Handler) getRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseRoleID(chi.URLParam(r, "roleId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	ids, all, err := h.service.ListRolePermissionIDs(r.Context(), roleID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if all {
		httpx.OK(w, http.StatusOK, "All permissions", []int64{})
		return
	}
	httpx.OK(w, http.StatusOK, "Role permissions", ids)
}

func (h *Handler) setRolePermissions(w http.ResponseWriter, r *http.Request) {
	roleID, err := parseRoleID(chi.URLParam(r, "roleId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	var req setPermissionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.service.SetRolePermissions(r.Context(), roleID, req.Permissions); err != nil {
		h.fail(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, "Permissions updated", nil)
}

func (h *Handler) permissionList(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		h.fail(w, shared.ErrUnauthorized)
		return
	}
	grouped, all, err := h.service.ListEffectivePermissions(r.Context(), principal.RoleID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if all {
		httpx.OK(w, http.StatusOK, "All permissions", map[string][]Permission{})
		return
	}
	httpx.OK(w, http.StatusOK, "Permissions", grouped)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error("rbac handler", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func parseRoleID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidRoleID
	}
	return id, nil
}
