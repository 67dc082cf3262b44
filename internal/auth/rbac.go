// Package auth provides authentication and authorization for Taskboard.
package auth

import (
	"errors"

	"github.com/taskboard/taskboard/internal/models"
)

// Permission defines an action that can be performed.
type Permission string

const (
	// Task permissions
	PermTasksRead   Permission = "tasks.read"
	PermTasksCreate Permission = "tasks.create"
	PermTasksUpdate Permission = "tasks.update"
	PermTasksDelete Permission = "tasks.delete"

	// Organization management
	PermOrgManage Permission = "org.manage"

	// User management
	PermUsersManage Permission = "users.manage"

	// Audit trail
	PermAuditRead Permission = "audit.read"
)

// AllPermissions lists every permission key in the catalog, in a fixed order.
var AllPermissions = []Permission{
	PermTasksRead,
	PermTasksCreate,
	PermTasksUpdate,
	PermTasksDelete,
	PermOrgManage,
	PermUsersManage,
	PermAuditRead,
}

// rolePermissions maps each role to the ordered set of permissions it holds.
// This table is the single source of truth for authorization; the persisted
// role and permission records exist for introspection only.
var rolePermissions = map[models.RoleName][]Permission{
	models.RoleOwner: {
		PermTasksRead, PermTasksCreate, PermTasksUpdate, PermTasksDelete,
		PermOrgManage, PermUsersManage, PermAuditRead,
	},
	models.RoleAdmin: {
		PermTasksRead, PermTasksCreate, PermTasksUpdate, PermTasksDelete,
		PermAuditRead,
	},
	models.RoleViewer: {
		PermTasksRead,
	},
}

// ErrForbidden is returned when a caller lacks the required permission or
// carries no role at all.
var ErrForbidden = errors.New("permission denied")

// RolePermissions returns the permission set for a role. Unknown roles get
// an empty set.
func RolePermissions(role models.RoleName) []Permission {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasRolePermission checks if a role has the given permission. Unknown
// roles fail closed.
func HasRolePermission(role models.RoleName, perm Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == perm {
			return true
		}
	}
	return false
}

// Authorize is the guard decision function: a pure check of session claims
// against the permission an operation requires. An empty required
// permission means the operation is public. Role names are normalized by
// upper-casing before lookup.
func Authorize(claims *Claims, required Permission) error {
	if required == "" {
		return nil
	}
	if claims == nil || claims.Role == "" {
		return ErrForbidden
	}
	role := models.NormalizeRoleName(claims.Role)
	if !HasRolePermission(role, required) {
		return ErrForbidden
	}
	return nil
}
