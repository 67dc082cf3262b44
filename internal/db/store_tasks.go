package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/taskboard/taskboard/internal/models"
)

const taskColumns = `id, title, description, status, due_date, organization_id, assignee_id, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	var statusStr string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &statusStr, &t.DueDate,
		&t.OrganizationID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = models.TaskStatus(statusStr)
	return &t, nil
}

// CreateTask inserts a new task.
func (db *DB) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, due_date, organization_id, assignee_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, task.ID, task.Title, task.Description, string(task.Status), task.DueDate,
		task.OrganizationID, task.AssigneeID, task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return wrapStoreErr("create task", err)
	}
	return nil
}

// GetTaskByID returns a task by its id.
func (db *DB) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	row := db.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, wrapStoreErr("get task", err)
	}
	return task, nil
}

// ListTasks returns tasks ordered by creation time descending, optionally
// filtered by organization. The assignee, if any, is resolved on each task.
func (db *DB) ListTasks(ctx context.Context, orgID string) ([]*models.Task, error) {
	query := `
		SELECT t.id, t.title, t.description, t.status, t.due_date,
		       t.organization_id, t.assignee_id, t.created_at, t.updated_at,
		       u.id, u.email, u.name, u.organization_id, u.role, u.created_at, u.updated_at
		FROM tasks t
		LEFT JOIN users u ON u.id = t.assignee_id
	`
	args := []any{}
	if orgID != "" {
		query += ` WHERE t.organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY t.created_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("list tasks", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		var t models.Task
		var statusStr string
		var assignee assigneeRow
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &statusStr, &t.DueDate,
			&t.OrganizationID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
			&assignee.id, &assignee.email, &assignee.name, &assignee.orgID,
			&assignee.role, &assignee.createdAt, &assignee.updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Status = models.TaskStatus(statusStr)
		t.Assignee = assignee.toUser()
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial patch to a task inside a transaction so the
// read-modify-write commits atomically. Returns ErrNotFound when the id
// does not exist.
func (db *DB) UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := db.ExecTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id)
		task, err := scanTask(row)
		if err != nil {
			return wrapStoreErr("get task for update", err)
		}

		if err := patch.Apply(task); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			UPDATE tasks
			SET title = $2, description = $3, status = $4, due_date = $5,
			    organization_id = $6, assignee_id = $7, updated_at = $8
			WHERE id = $1
		`, task.ID, task.Title, task.Description, string(task.Status), task.DueDate,
			task.OrganizationID, task.AssigneeID, task.UpdatedAt)
		if err != nil {
			return wrapStoreErr("update task", err)
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask hard-deletes a task. Returns ErrNotFound when the id does
// not exist.
func (db *DB) DeleteTask(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return wrapStoreErr("delete task", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete task: %w", ErrNotFound)
	}
	return nil
}

// assigneeRow holds the nullable columns of a left-joined assignee.
type assigneeRow struct {
	id        *uuid.UUID
	email     *string
	name      *string
	orgID     *string
	role      *string
	createdAt *time.Time
	updatedAt *time.Time
}

func (a assigneeRow) toUser() *models.User {
	if a.id == nil {
		return nil
	}
	u := &models.User{ID: *a.id}
	if a.email != nil {
		u.Email = *a.email
	}
	if a.name != nil {
		u.Name = *a.name
	}
	if a.orgID != nil {
		u.OrganizationID = *a.orgID
	}
	if a.role != nil {
		u.Role = models.RoleName(*a.role)
	}
	if a.createdAt != nil {
		u.CreatedAt = *a.createdAt
	}
	if a.updatedAt != nil {
		u.UpdatedAt = *a.updatedAt
	}
	return u
}
