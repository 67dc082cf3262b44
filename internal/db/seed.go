package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/models"
)

const (
	seedOrganizationID = "ORG-A"
	seedPassword       = "password123"
)

// EnsureSeedData provisions the role and permission catalog, a demo
// organization and two demo users. Safe to call on every startup: existing
// rows are left untouched.
func (db *DB) EnsureSeedData(ctx context.Context) error {
	roleDescriptions := map[models.RoleName]string{
		models.RoleOwner:  "Full control over the organization, its users, and the audit trail",
		models.RoleAdmin:  "Manages tasks and reads the audit trail",
		models.RoleViewer: "Read-only access to tasks",
	}
	for _, name := range models.ValidRoleNames() {
		if err := db.EnsureRole(ctx, models.NewRole(name, roleDescriptions[name])); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	permissionDescriptions := map[auth.Permission]string{
		auth.PermTasksRead:   "Read tasks",
		auth.PermTasksCreate: "Create tasks",
		auth.PermTasksUpdate: "Update tasks",
		auth.PermTasksDelete: "Delete tasks",
		auth.PermOrgManage:   "Manage organizations",
		auth.PermUsersManage: "Manage users and role assignments",
		auth.PermAuditRead:   "Read the audit trail",
	}
	for _, perm := range auth.AllPermissions {
		if err := db.EnsurePermission(ctx, models.NewPermission(string(perm), permissionDescriptions[perm])); err != nil {
			return fmt.Errorf("seed permission %s: %w", perm, err)
		}
	}

	org := models.NewOrganization(seedOrganizationID, "Organization A")
	if err := db.EnsureOrganization(ctx, org); err != nil {
		return fmt.Errorf("seed organization: %w", err)
	}

	if err := ensureSeedUsers(ctx, db, db.logger); err != nil {
		return err
	}

	return nil
}

// seedUserStore is the slice of the store needed to provision demo users.
type seedUserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

func ensureSeedUsers(ctx context.Context, store seedUserStore, logger zerolog.Logger) error {
	seedUsers := []struct {
		email string
		name  string
		role  models.RoleName
	}{
		{"owner@example.com", "Demo Owner", models.RoleOwner},
		{"viewer@example.com", "Demo Viewer", models.RoleViewer},
	}
	for _, su := range seedUsers {
		if _, err := store.GetUserByEmail(ctx, su.email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("check seed user %s: %w", su.email, err)
		}
		hash, err := auth.HashPassword(seedPassword)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		user := models.NewUser(su.email, su.name, hash, seedOrganizationID, su.role)
		if err := store.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		logger.Info().Str("email", su.email).Str("role", string(su.role)).Msg("Seeded demo user")
	}

	return nil
}
