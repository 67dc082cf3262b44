package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/models"
)

// OrganizationStore defines the interface for organization persistence operations.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org *models.Organization) error
	GetOrganizationByID(ctx context.Context, id string) (*models.Organization, error)
	ListOrganizations(ctx context.Context) ([]*models.Organization, error)
}

// OrganizationsHandler handles tenant management endpoints.
type OrganizationsHandler struct {
	store  OrganizationStore
	logger zerolog.Logger
}

// NewOrganizationsHandler creates a new OrganizationsHandler.
func NewOrganizationsHandler(store OrganizationStore, logger zerolog.Logger) *OrganizationsHandler {
	return &OrganizationsHandler{
		store:  store,
		logger: logger.With().Str("component", "organizations_handler").Logger(),
	}
}

// RegisterRoutes registers organization routes on the given router group.
func (h *OrganizationsHandler) RegisterRoutes(r *gin.RouterGroup, guard func(auth.Permission) gin.HandlerFunc) {
	orgs := r.Group("/organizations")
	{
		orgs.GET("", guard(auth.PermOrgManage), h.List)
		orgs.POST("", guard(auth.PermOrgManage), h.Create)
		orgs.GET("/:id", guard(auth.PermOrgManage), h.Get)
	}
}

type createOrganizationRequest struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
}

// List returns all organizations.
// GET /api/v1/organizations
func (h *OrganizationsHandler) List(c *gin.Context) {
	orgs, err := h.store.ListOrganizations(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list organizations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list organizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs})
}

// Get returns an organization by its id.
// GET /api/v1/organizations/:id
func (h *OrganizationsHandler) Get(c *gin.Context) {
	org, err := h.store.GetOrganizationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			return
		}
		h.logger.Error().Err(err).Str("org_id", c.Param("id")).Msg("failed to get organization")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve organization"})
		return
	}

	c.JSON(http.StatusOK, org)
}

// Create registers a new organization.
// POST /api/v1/organizations
func (h *OrganizationsHandler) Create(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	org := models.NewOrganization(req.ID, req.Name)
	org.ParentID = req.ParentID

	if err := h.store.CreateOrganization(c.Request.Context(), org); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization id is already taken"})
			return
		}
		h.logger.Error().Err(err).Str("org_id", req.ID).Msg("failed to create organization")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create organization"})
		return
	}

	h.logger.Info().Str("org_id", org.ID).Msg("organization created")

	c.JSON(http.StatusCreated, org)
}
