package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the kind of task mutation that was audited.
type AuditAction string

const (
	// AuditActionTaskCreated records a task creation.
	AuditActionTaskCreated AuditAction = "TASK_CREATED"
	// AuditActionTaskUpdated records a task update.
	AuditActionTaskUpdated AuditAction = "TASK_UPDATED"
	// AuditActionTaskDeleted records a task deletion.
	AuditActionTaskDeleted AuditAction = "TASK_DELETED"
)

// AuditLogEntry is an immutable record of a task mutation. Entries are
// append-only; nothing in the server mutates or deletes them.
type AuditLogEntry struct {
	ID             uuid.UUID   `json:"id"`
	Action         AuditAction `json:"action"`
	TaskID         uuid.UUID   `json:"task_id"`
	OrganizationID string      `json:"organization_id,omitempty"`
	Role           RoleName    `json:"role"`
	ActorID        *uuid.UUID  `json:"actor_id,omitempty"`
	Details        string      `json:"details,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

// NewAuditLogEntry creates a new audit entry for a task mutation.
func NewAuditLogEntry(action AuditAction, taskID uuid.UUID, orgID string, role RoleName) *AuditLogEntry {
	return &AuditLogEntry{
		ID:             uuid.New(),
		Action:         action,
		TaskID:         taskID,
		OrganizationID: orgID,
		Role:           role,
		CreatedAt:      time.Now().UTC(),
	}
}

// WithActor sets the acting user on the entry.
func (e *AuditLogEntry) WithActor(userID uuid.UUID) *AuditLogEntry {
	e.ActorID = &userID
	return e
}

// WithDetails sets the free-text description on the entry.
func (e *AuditLogEntry) WithDetails(details string) *AuditLogEntry {
	e.Details = details
	return e
}
