package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskboard/taskboard/internal/models"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Organization methods

// CreateOrganization inserts a new organization.
func (db *DB) CreateOrganization(ctx context.Context, org *models.Organization) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO organizations (id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, org.ID, org.Name, org.ParentID, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return wrapStoreErr("create organization", err)
	}
	return nil
}

// GetOrganizationByID returns an organization by its id.
func (db *DB) GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id).Scan(&org.ID, &org.Name, &org.ParentID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, wrapStoreErr("get organization", err)
	}
	return &org, nil
}

// ListOrganizations returns all organizations ordered by name.
func (db *DB) ListOrganizations(ctx context.Context) ([]*models.Organization, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, parent_id, created_at, updated_at
		FROM organizations
		ORDER BY name
	`)
	if err != nil {
		return nil, wrapStoreErr("list organizations", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.ID, &org.Name, &org.ParentID, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, &org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

// EnsureOrganization creates the organization if it does not already exist.
func (db *DB) EnsureOrganization(ctx context.Context, org *models.Organization) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO organizations (id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, org.ID, org.Name, org.ParentID, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return wrapStoreErr("ensure organization", err)
	}
	return nil
}

// Role methods

// GetRoleByName returns a role record by its name.
func (db *DB) GetRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	var nameStr string
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, description, created_at
		FROM roles
		WHERE name = $1
	`, string(name)).Scan(&role.ID, &nameStr, &role.Description, &role.CreatedAt)
	if err != nil {
		return nil, wrapStoreErr("get role", err)
	}
	role.Name = models.RoleName(nameStr)
	return &role, nil
}

// ListRoles returns all role records ordered by name.
func (db *DB) ListRoles(ctx context.Context) ([]*models.Role, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, description, created_at
		FROM roles
		ORDER BY name
	`)
	if err != nil {
		return nil, wrapStoreErr("list roles", err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		var role models.Role
		var nameStr string
		if err := rows.Scan(&role.ID, &nameStr, &role.Description, &role.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		role.Name = models.RoleName(nameStr)
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

// EnsureRole creates the role record if it does not already exist.
func (db *DB) EnsureRole(ctx context.Context, role *models.Role) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO roles (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO NOTHING
	`, role.ID, string(role.Name), role.Description, role.CreatedAt)
	if err != nil {
		return wrapStoreErr("ensure role", err)
	}
	return nil
}

// Permission methods

// ListPermissions returns all permission records ordered by key.
func (db *DB) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, key, description, created_at
		FROM permissions
		ORDER BY key
	`)
	if err != nil {
		return nil, wrapStoreErr("list permissions", err)
	}
	defer rows.Close()

	var perms []*models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Key, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		perms = append(perms, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}
	return perms, nil
}

// EnsurePermission creates the permission record if it does not already exist.
func (db *DB) EnsurePermission(ctx context.Context, perm *models.Permission) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO permissions (id, key, description, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO NOTHING
	`, perm.ID, perm.Key, perm.Description, perm.CreatedAt)
	if err != nil {
		return wrapStoreErr("ensure permission", err)
	}
	return nil
}
