package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can authenticate against the API.
// The password is stored only as a bcrypt hash.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name,omitempty"`
	PasswordHash   string    `json:"-"`
	OrganizationID string    `json:"organization_id,omitempty"`
	Role           RoleName  `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given details.
func NewUser(email, name, passwordHash, orgID string, role RoleName) *User {
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Email:          email,
		Name:           name,
		PasswordHash:   passwordHash,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
