package rbac

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/genesislab/siteadmin/internal/shared"
)

// AuditRecorder receives an entry for every permission change.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Config tunes the Service.
type Config struct {
	// APIPrefix is prepended to permission paths before comparing them with
	// route templates. Defaults to "/api/".
	APIPrefix          string
	UnknownPermissions UnknownPermissionPolicy
	Audit              AuditRecorder
	Logger             *slog.Logger
}

// Service is the role/permission authority.
type Service struct {
	repo   Repository
	prefix string
	policy UnknownPermissionPolicy
	audit  AuditRecorder
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, cfg Config) *Service {
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = "/api/"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, prefix: prefix, policy: cfg.UnknownPermissions, audit: cfg.Audit, logger: logger}
}

// Authorize decides whether roleID may call method on the route template
// requestPath. Unknown roles are denied.
func (s *Service) Authorize(ctx context.Context, roleID int64, requestPath, method string) (bool, error) {
	role, err := s.repo.GetRole(ctx, roleID)
	if errors.Is(err, ErrRoleNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if role.IsSuperAdmin() {
		return true, nil
	}

	perms, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return false, err
	}
	method = strings.ToLower(method)
	for _, p := range perms {
		if p.Method == method && s.prefix+p.Path == requestPath {
			return true, nil
		}
	}
	return false, nil
}

// SetRolePermissions replaces the role's permission set in one transaction.
// The Super Admin role is left untouched.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	if roleID <= 0 {
		return ErrInvalidRoleID
	}

	var stored []int64
	changed := false
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		role, err := tx.GetRole(ctx, roleID)
		if err != nil {
			return err
		}
		if role.IsSuperAdmin() {
			return nil
		}

		requested := dedupe(permissionIDs)
		known, err := tx.ExistingPermissionIDs(ctx, requested)
		if err != nil {
			return err
		}
		stored, err = s.resolveUnknown(requested, known)
		if err != nil {
			return err
		}

		if err := tx.DeleteRolePermissions(ctx, roleID); err != nil {
			return err
		}
		for _, id := range stored {
			if err := tx.InsertRolePermission(ctx, roleID, id); err != nil {
				return err
			}
		}
		changed = true
		return nil
	})
	if err != nil {
		return err
	}
	if changed {
		s.recordChange(ctx, roleID, stored)
	}
	return nil
}

// resolveUnknown applies the unknown-permission policy and returns the ids to store.
func (s *Service) resolveUnknown(requested, known []int64) ([]int64, error) {
	if s.policy == PolicyStrict && len(known) != len(requested) {
		return nil, ErrUnknownPermission
	}
	return known, nil
}

func (s *Service) recordChange(ctx context.Context, roleID int64, ids []int64) {
	if s.audit == nil {
		return
	}
	actor := ""
	if p, ok := shared.PrincipalFromContext(ctx); ok {
		actor = p.AdminID.String()
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   "role.permissions.replace",
		Entity:   "role",
		EntityID: strconv.FormatInt(roleID, 10),
		Meta:     map[string]any{"permissions": ids},
	})
	if err != nil {
		s.logger.Warn("rbac audit", slog.Int64("role_id", roleID), slog.Any("error", err))
	}
}

// ListRolePermissionIDs returns the ids granted to the role. all is true for
// the Super Admin role, in which case ids is nil.
func (s *Service) ListRolePermissionIDs(ctx context.Context, roleID int64) ([]int64, bool, error) {
	if roleID <= 0 {
		return nil, false, ErrInvalidRoleID
	}
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, false, err
	}
	if role.IsSuperAdmin() {
		return nil, true, nil
	}
	perms, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return nil, false, err
	}
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids, false, nil
}

// ListEffectivePermissions returns the role's permissions grouped by title.
// all is true for the Super Admin role.
func (s *Service) ListEffectivePermissions(ctx context.Context, roleID int64) (map[string][]Permission, bool, error) {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return nil, false, err
	}
	if role.IsSuperAdmin() {
		return nil, true, nil
	}
	perms, err := s.repo.ListRolePermissions(ctx, roleID)
	if err != nil {
		return nil, false, err
	}
	return groupByTitle(perms), false, nil
}

// ListPermissionsGrouped returns the whole catalogue grouped by title.
func (s *Service) ListPermissionsGrouped(ctx context.Context) (map[string][]Permission, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, ErrNoPermissions
	}
	return groupByTitle(perms), nil
}

// ListRoles returns every role.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRole fetches a role by ID.
func (s *Service) GetRole(ctx context.Context, id int64) (Role, error) {
	if id <= 0 {
		return Role{}, ErrInvalidRoleID
	}
	return s.repo.GetRole(ctx, id)
}

func groupByTitle(perms []Permission) map[string][]Permission {
	grouped := make(map[string][]Permission)
	for _, p := range perms {
		grouped[p.Title] = append(grouped[p.Title], p)
	}
	return grouped
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
