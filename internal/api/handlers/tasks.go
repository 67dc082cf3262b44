package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/api/middleware"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/models"
)

// TaskStore defines the interface for task persistence operations.
type TaskStore interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, orgID string) ([]*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// AuditRecorder defines the interface for appending audit entries.
type AuditRecorder interface {
	CreateAuditLogEntry(ctx context.Context, entry *models.AuditLogEntry) error
}

// TasksHandler handles task CRUD endpoints.
type TasksHandler struct {
	store  TaskStore
	audit  AuditRecorder
	logger zerolog.Logger
}

// NewTasksHandler creates a new TasksHandler.
func NewTasksHandler(store TaskStore, audit AuditRecorder, logger zerolog.Logger) *TasksHandler {
	return &TasksHandler{
		store:  store,
		audit:  audit,
		logger: logger.With().Str("component", "tasks_handler").Logger(),
	}
}

// RegisterRoutes registers task routes on the given router group.
// guard builds the permission middleware for each mutation.
func (h *TasksHandler) RegisterRoutes(r *gin.RouterGroup, guard func(auth.Permission) gin.HandlerFunc) {
	tasks := r.Group("/tasks")
	{
		tasks.GET("", guard(auth.PermTasksRead), h.List)
		tasks.POST("", guard(auth.PermTasksCreate), h.Create)
		tasks.GET("/:id", guard(auth.PermTasksRead), h.Get)
		tasks.PUT("/:id", guard(auth.PermTasksUpdate), h.Update)
		tasks.DELETE("/:id", guard(auth.PermTasksDelete), h.Delete)
	}
}

type createTaskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	DueDate        string `json:"due_date"`
	OrganizationID string `json:"organization_id"`
	AssigneeID     string `json:"assignee_id"`
}

// List returns tasks visible to the caller, newest first.
// Callers with an organization claim see only that organization's tasks;
// unscoped callers may filter with the organization_id query parameter.
// GET /api/v1/tasks
func (h *TasksHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orgFilter := claims.OrganizationID
	if orgFilter == "" {
		orgFilter = c.Query("organization_id")
	}

	tasks, err := h.store.ListTasks(c.Request.Context(), orgFilter)
	if err != nil {
		h.logger.Error().Err(err).Str("org_id", orgFilter).Msg("failed to list tasks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// Get returns a single task by id.
// GET /api/v1/tasks/:id
func (h *TasksHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	task, ok := h.taskInScope(c, claims)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, task)
}

// Create creates a task. The organization comes from the caller's claims;
// callers without an organization claim may name one explicitly.
// POST /api/v1/tasks
func (h *TasksHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	orgID := claims.OrganizationID
	if orgID == "" {
		orgID = req.OrganizationID
	}

	task, err := models.NewTask(req.Title, orgID, models.TaskStatus(req.Status))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task.Description = req.Description

	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date, expected RFC 3339"})
			return
		}
		task.DueDate = &due
	}
	if req.AssigneeID != "" {
		assignee, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee_id"})
			return
		}
		task.AssigneeID = &assignee
	}

	if err := h.store.CreateTask(c.Request.Context(), task); err != nil {
		h.logger.Error().Err(err).Msg("failed to create task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	h.recordAudit(c, models.AuditActionTaskCreated, task, claims,
		fmt.Sprintf("created task %q", task.Title))

	c.JSON(http.StatusCreated, task)
}

// Update applies a partial patch to a task. Omitted fields are untouched;
// fields explicitly set to null clear the value.
// PUT /api/v1/tasks/:id
func (h *TasksHandler) Update(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	existing, ok := h.taskInScope(c, claims)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	patch, err := buildTaskPatch(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Tenant scoping covers the written value too: a scoped caller may
	// not move a task into another organization.
	if patch.OrganizationID != nil && claims.OrganizationID != "" && *patch.OrganizationID != claims.OrganizationID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot move task to another organization"})
		return
	}

	task, err := h.store.UpdateTask(c.Request.Context(), existing.ID, patch)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, models.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error().Err(err).Str("task_id", existing.ID.String()).Msg("failed to update task")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		}
		return
	}

	h.recordAudit(c, models.AuditActionTaskUpdated, task, claims,
		fmt.Sprintf("updated task %q", task.Title))

	c.JSON(http.StatusOK, task)
}

// Delete removes a task.
// DELETE /api/v1/tasks/:id
func (h *TasksHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	task, ok := h.taskInScope(c, claims)
	if !ok {
		return
	}

	if err := h.store.DeleteTask(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error().Err(err).Str("task_id", task.ID.String()).Msg("failed to delete task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	h.recordAudit(c, models.AuditActionTaskDeleted, task, claims,
		fmt.Sprintf("deleted task %q", task.Title))

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// taskInScope parses the :id parameter, loads the task, and enforces
// tenant scoping: callers with an organization claim cannot observe
// tasks of another organization, which surface as not found.
func (h *TasksHandler) taskInScope(c *gin.Context, claims *auth.Claims) (*models.Task, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return nil, false
	}

	task, err := h.store.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return nil, false
		}
		h.logger.Error().Err(err).Str("task_id", id.String()).Msg("failed to get task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve task"})
		return nil, false
	}

	if claims.OrganizationID != "" && task.OrganizationID != claims.OrganizationID {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return nil, false
	}

	return task, true
}

// buildTaskPatch distinguishes absent fields from fields explicitly set
// to null, which clear the value.
func buildTaskPatch(body []byte) (models.TaskPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.TaskPatch{}, fmt.Errorf("invalid request body")
	}

	var patch models.TaskPatch

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			return models.TaskPatch{}, fmt.Errorf("invalid title")
		}
		patch.Title = &title
	}
	if v, ok := raw["description"]; ok {
		var desc string
		if err := json.Unmarshal(v, &desc); err != nil {
			return models.TaskPatch{}, fmt.Errorf("invalid description")
		}
		patch.Description = &desc
	}
	if v, ok := raw["status"]; ok {
		var status models.TaskStatus
		if err := json.Unmarshal(v, &status); err != nil {
			return models.TaskPatch{}, fmt.Errorf("invalid status")
		}
		patch.Status = &status
	}
	if v, ok := raw["organization_id"]; ok {
		var orgID string
		if err := json.Unmarshal(v, &orgID); err != nil {
			return models.TaskPatch{}, fmt.Errorf("invalid organization_id")
		}
		patch.OrganizationID = &orgID
	}
	if v, ok := raw["due_date"]; ok {
		if isJSONNull(v) {
			patch.ClearDueDate = true
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return models.TaskPatch{}, fmt.Errorf("invalid due_date")
			}
			if s == "" {
				patch.ClearDueDate = true
			} else {
				due, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return models.TaskPatch{}, fmt.Errorf("invalid due_date, expected RFC 3339")
				}
				patch.DueDate = &due
			}
		}
	}
	if v, ok := raw["assignee_id"]; ok {
		if isJSONNull(v) {
			patch.ClearAssignee = true
		} else {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return models.TaskPatch{}, fmt.Errorf("invalid assignee_id")
			}
			if s == "" {
				patch.ClearAssignee = true
			} else {
				assignee, err := uuid.Parse(s)
				if err != nil {
					return models.TaskPatch{}, fmt.Errorf("invalid assignee_id")
				}
				patch.AssigneeID = &assignee
			}
		}
	}

	return patch, nil
}

func isJSONNull(v json.RawMessage) bool {
	return string(v) == "null"
}

// recordAudit appends an audit entry for a successful task mutation.
// A failed append never rolls back the mutation it describes.
func (h *TasksHandler) recordAudit(c *gin.Context, action models.AuditAction, task *models.Task, claims *auth.Claims, details string) {
	entry := models.NewAuditLogEntry(action, task.ID, task.OrganizationID, models.NormalizeRoleName(claims.Role)).
		WithActor(claims.UserID).
		WithDetails(details)

	if err := h.audit.CreateAuditLogEntry(c.Request.Context(), entry); err != nil {
		h.logger.Error().Err(err).
			Str("action", string(action)).
			Str("task_id", task.ID.String()).
			Msg("failed to record audit entry")
	}
}
