package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard/internal/models"
)

const userColumns = `id, email, name, password_hash, organization_id, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var roleStr string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.OrganizationID, &roleStr, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Role = models.RoleName(roleStr)
	return &u, nil
}

// CreateUser creates a new user. Returns ErrDuplicate when the email is
// already registered.
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, organization_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Email, user.Name, user.PasswordHash, user.OrganizationID, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return wrapStoreErr("create user", err)
	}
	return nil
}

// GetUserByID returns a user by their id.
func (db *DB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapStoreErr("get user by id", err)
	}
	return user, nil
}

// GetUserByEmail returns a user by exact email match.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapStoreErr("get user by email", err)
	}
	return user, nil
}

// ListUsers returns users, optionally filtered by organization, ordered
// by name then email.
func (db *DB) ListUsers(ctx context.Context, orgID string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if orgID != "" {
		query += ` WHERE organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY name, email`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("list users", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// UpdateUserRole reassigns a user's role. This is the only expected user
// mutation.
func (db *DB) UpdateUserRole(ctx context.Context, id uuid.UUID, role models.RoleName) (*models.User, error) {
	row := db.Pool.QueryRow(ctx, `
		UPDATE users
		SET role = $2, updated_at = $3
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, string(role), time.Now().UTC())
	user, err := scanUser(row)
	if err != nil {
		return nil, wrapStoreErr("update user role", err)
	}
	return user, nil
}
