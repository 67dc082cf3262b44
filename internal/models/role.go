package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RoleName identifies one of the fixed set of roles.
type RoleName string

const (
	// RoleOwner has full control over the organization, users, and audit trail.
	RoleOwner RoleName = "OWNER"
	// RoleAdmin can manage tasks and read the audit trail.
	RoleAdmin RoleName = "ADMIN"
	// RoleViewer has read-only access to tasks.
	RoleViewer RoleName = "VIEWER"
)

// ValidRoleNames returns all valid role names.
func ValidRoleNames() []RoleName {
	return []RoleName{RoleOwner, RoleAdmin, RoleViewer}
}

// NormalizeRoleName upper-cases a raw role string for catalog lookups.
func NormalizeRoleName(raw string) RoleName {
	return RoleName(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsValid returns true if the role name is one of the fixed set.
func (r RoleName) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleViewer:
		return true
	}
	return false
}

// Role is the persisted record for a role. Roles are seeded once at
// startup and never mutated; authorization reads the static catalog,
// not these records.
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        RoleName  `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRole creates a new Role record.
func NewRole(name RoleName, description string) *Role {
	return &Role{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// Permission is the persisted record for a permission key. Kept for
// introspection only; the authorization hot path uses the in-memory
// catalog.
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPermission creates a new Permission record.
func NewPermission(key, description string) *Permission {
	return &Permission{
		ID:          uuid.New(),
		Key:         key,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
