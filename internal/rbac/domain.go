package rbac

import (
	"net/http"

	"github.com/genesislab/siteadmin/internal/shared"
)

// SuperAdminRoleName is the role that bypasses every permission check.
const SuperAdminRoleName = "Super Admin"

// Role represents a named grouping of permissions.
type Role struct {
	ID   int64  `json:"roleId"`
	Name string `json:"roleName"`
}

// IsSuperAdmin reports whether the role bypasses permission checks.
func (r Role) IsSuperAdmin() bool {
	return r.Name == SuperAdminRoleName
}

// Permission grants one HTTP method on one route template. Path is relative to
// the API prefix and uses the router's {param} syntax; Method is lower-case.
type Permission struct {
	ID         int64  `json:"permissionId"`
	Title      string `json:"title"`
	AccessName string `json:"accessName"`
	Path       string `json:"path"`
	Method     string `json:"method"`
}

// RolePermission ties a permission to a role.
type RolePermission struct {
	RoleID       int64
	PermissionID int64
}

// UnknownPermissionPolicy decides what SetRolePermissions does with ids that
// match no permission.
type UnknownPermissionPolicy int

const (
	// PolicyLenient drops unknown ids and stores the rest.
	PolicyLenient UnknownPermissionPolicy = iota
	// PolicyStrict rejects the whole batch.
	PolicyStrict
)

var (
	ErrInvalidRoleID     = shared.NewDomainError(http.StatusBadRequest, "Invalid role id")
	ErrRoleNotFound      = shared.NewDomainError(http.StatusBadRequest, "Role does not exist")
	ErrUnknownPermission = shared.NewDomainError(http.StatusBadRequest, "Permission does not exist")
	ErrNoPermissions     = shared.NewDomainError(http.StatusNotFound, "Content not found")
)
