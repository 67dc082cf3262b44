// Package models defines the domain types shared across the server.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidInput indicates a malformed or rejected payload value.
var ErrInvalidInput = errors.New("invalid input")

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusOpen is the initial state of a new task.
	TaskStatusOpen TaskStatus = "OPEN"
	// TaskStatusInProgress marks a task someone is actively working on.
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	// TaskStatusDone marks a completed task.
	TaskStatusDone TaskStatus = "DONE"
	// TaskStatusArchived marks a task removed from active boards.
	TaskStatusArchived TaskStatus = "ARCHIVED"
)

// ValidTaskStatuses returns all recognized task statuses.
func ValidTaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusOpen, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived}
}

// IsValid reports whether the status is one of the recognized values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// Task is a unit of work scoped to an organization.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Status         TaskStatus `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	OrganizationID string     `json:"organization_id,omitempty"`
	AssigneeID     *uuid.UUID `json:"assignee_id,omitempty"`
	Assignee       *User      `json:"assignee,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTask creates a task with a generated id. An empty status defaults
// to OPEN.
func NewTask(title, orgID string, status TaskStatus) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if status == "" {
		status = TaskStatusOpen
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	now := time.Now().UTC()
	return &Task{
		ID:             uuid.New(),
		Title:          title,
		Status:         status,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// TaskPatch describes a partial update. Nil fields are left untouched;
// the Clear flags reset optional fields that a nil pointer alone cannot
// distinguish from "not provided".
type TaskPatch struct {
	Title          *string
	Description    *string
	Status         *TaskStatus
	DueDate        *time.Time
	ClearDueDate   bool
	OrganizationID *string
	AssigneeID     *uuid.UUID
	ClearAssignee  bool
}

// Apply mutates the task in place with the provided fields and bumps
// UpdatedAt. Any status may move to any other status; values are only
// checked against the enum.
func (p TaskPatch) Apply(t *Task) error {
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		if !p.Status.IsValid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *p.Status)
		}
		t.Status = *p.Status
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.OrganizationID != nil {
		t.OrganizationID = *p.OrganizationID
	}
	if p.ClearAssignee {
		t.AssigneeID = nil
	} else if p.AssigneeID != nil {
		id := *p.AssigneeID
		t.AssigneeID = &id
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}
