package models

import "time"

// Organization is a tenant boundary. IDs are opaque labels (e.g. "ORG-A")
// referenced by users and tasks. The parent link allows a hierarchy, but
// authorization compares tenant ids flat.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrganization creates a new Organization with the given id and name.
func NewOrganization(id, name string) *Organization {
	now := time.Now().UTC()
	return &Organization{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
