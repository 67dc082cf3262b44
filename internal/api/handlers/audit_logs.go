package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/api/middleware"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/models"
)

const defaultAuditLogLimit = 100

// AuditLogStore defines the interface for reading the audit trail.
type AuditLogStore interface {
	ListAuditLogs(ctx context.Context, orgID string, limit, offset int) ([]*models.AuditLogEntry, error)
}

// AuditLogsHandler handles audit trail endpoints.
type AuditLogsHandler struct {
	store  AuditLogStore
	logger zerolog.Logger
}

// NewAuditLogsHandler creates a new AuditLogsHandler.
func NewAuditLogsHandler(store AuditLogStore, logger zerolog.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{
		store:  store,
		logger: logger.With().Str("component", "audit_logs_handler").Logger(),
	}
}

// RegisterRoutes registers audit trail routes on the given router group.
func (h *AuditLogsHandler) RegisterRoutes(r *gin.RouterGroup, guard func(auth.Permission) gin.HandlerFunc) {
	r.GET("/audit-logs", guard(auth.PermAuditRead), h.List)
}

// List returns audit entries, newest first. Callers with an organization
// claim see only their organization's entries.
// GET /api/v1/audit-logs
func (h *AuditLogsHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orgFilter := claims.OrganizationID
	if orgFilter == "" {
		orgFilter = c.Query("organization_id")
	}

	limit := defaultAuditLogLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	offset := 0
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
			return
		}
		offset = n
	}

	entries, err := h.store.ListAuditLogs(c.Request.Context(), orgFilter, limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit logs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}
