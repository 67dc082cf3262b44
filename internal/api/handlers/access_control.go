package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/models"
)

// AccessControlStore defines the interface for reading the seeded role
// and permission records.
type AccessControlStore interface {
	ListRoles(ctx context.Context) ([]*models.Role, error)
	ListPermissions(ctx context.Context) ([]*models.Permission, error)
}

// AccessControlHandler exposes the role catalog for introspection.
type AccessControlHandler struct {
	store  AccessControlStore
	logger zerolog.Logger
}

// NewAccessControlHandler creates a new AccessControlHandler.
func NewAccessControlHandler(store AccessControlStore, logger zerolog.Logger) *AccessControlHandler {
	return &AccessControlHandler{
		store:  store,
		logger: logger.With().Str("component", "access_control_handler").Logger(),
	}
}

// RegisterRoutes registers access-control routes on the given router group.
// Any authenticated caller may inspect the catalog.
func (h *AccessControlHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/access-control/roles", h.ListRoles)
	r.GET("/access-control/permissions", h.ListPermissions)
}

type roleCatalogEntry struct {
	Name        models.RoleName `json:"name"`
	Description string          `json:"description,omitempty"`
	Permissions []string        `json:"permissions"`
}

// ListRoles returns every role with its granted permission keys. Grants
// come from the in-memory catalog; the persisted records only contribute
// descriptions.
// GET /api/v1/access-control/roles
func (h *AccessControlHandler) ListRoles(c *gin.Context) {
	descriptions := make(map[models.RoleName]string)
	records, err := h.store.ListRoles(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list role records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list roles"})
		return
	}
	for _, rec := range records {
		descriptions[rec.Name] = rec.Description
	}

	roles := make([]roleCatalogEntry, 0, len(models.ValidRoleNames()))
	for _, name := range models.ValidRoleNames() {
		perms := auth.RolePermissions(name)
		keys := make([]string, 0, len(perms))
		for _, p := range perms {
			keys = append(keys, string(p))
		}
		roles = append(roles, roleCatalogEntry{
			Name:        name,
			Description: descriptions[name],
			Permissions: keys,
		})
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// ListPermissions returns every permission record in the catalog.
// GET /api/v1/access-control/permissions
func (h *AccessControlHandler) ListPermissions(c *gin.Context) {
	perms, err := h.store.ListPermissions(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list permission records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list permissions"})
		return
	}
	if perms == nil {
		perms = []*models.Permission{}
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms})
}
