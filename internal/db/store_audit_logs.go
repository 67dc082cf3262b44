package db

import (
	"context"
	"fmt"

	"github.com/taskboard/taskboard/internal/models"
)

// CreateAuditLogEntry appends an entry to the audit trail. Entries are
// never updated or deleted afterwards.
func (db *DB) CreateAuditLogEntry(ctx context.Context, entry *models.AuditLogEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO audit_logs (id, action, task_id, organization_id, role, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, string(entry.Action), entry.TaskID, entry.OrganizationID,
		string(entry.Role), entry.ActorID, entry.Details, entry.CreatedAt)
	if err != nil {
		return wrapStoreErr("create audit log entry", err)
	}
	return nil
}

// ListAuditLogs returns audit entries newest first, optionally filtered by
// organization. limit <= 0 means no limit.
func (db *DB) ListAuditLogs(ctx context.Context, orgID string, limit, offset int) ([]*models.AuditLogEntry, error) {
	query := `
		SELECT id, action, task_id, organization_id, role, actor_id, details, created_at
		FROM audit_logs
	`
	args := []any{}
	if orgID != "" {
		query += ` WHERE organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStoreErr("list audit logs", err)
	}
	defer rows.Close()

	var entries []*models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		var actionStr, roleStr string
		err := rows.Scan(&e.ID, &actionStr, &e.TaskID, &e.OrganizationID,
			&roleStr, &e.ActorID, &e.Details, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit log entry: %w", err)
		}
		e.Action = models.AuditAction(actionStr)
		e.Role = models.RoleName(roleStr)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}
	return entries, nil
}
