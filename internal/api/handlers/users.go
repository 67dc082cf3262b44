package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/api/middleware"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/db"
	"github.com/taskboard/taskboard/internal/models"
)

// UserStore defines the interface for user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, orgID string) ([]*models.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.RoleName) (*models.User, error)
}

// UsersHandler handles user management endpoints.
type UsersHandler struct {
	store  UserStore
	logger zerolog.Logger
}

// NewUsersHandler creates a new UsersHandler.
func NewUsersHandler(store UserStore, logger zerolog.Logger) *UsersHandler {
	return &UsersHandler{
		store:  store,
		logger: logger.With().Str("component", "users_handler").Logger(),
	}
}

// RegisterRoutes registers user management routes on the given router group.
func (h *UsersHandler) RegisterRoutes(r *gin.RouterGroup, guard func(auth.Permission) gin.HandlerFunc) {
	users := r.Group("/users")
	{
		users.GET("", guard(auth.PermUsersManage), h.List)
		users.POST("", guard(auth.PermUsersManage), h.Create)
		users.PUT("/:id/role", guard(auth.PermUsersManage), h.UpdateRole)
	}
}

type createUserRequest struct {
	Email          string `json:"email" binding:"required"`
	Name           string `json:"name"`
	Password       string `json:"password" binding:"required"`
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role" binding:"required"`
}

// List returns users, scoped to the caller's organization when one is set.
// GET /api/v1/users
func (h *UsersHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orgFilter := claims.OrganizationID
	if orgFilter == "" {
		orgFilter = c.Query("organization_id")
	}

	users, err := h.store.ListUsers(c.Request.Context(), orgFilter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Create registers a new user with a role assignment.
// POST /api/v1/users
func (h *UsersHandler) Create(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	role := models.NormalizeRoleName(req.Role)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role name"})
		return
	}

	orgID := claims.OrganizationID
	if orgID == "" {
		orgID = req.OrganizationID
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user := models.NewUser(req.Email, req.Name, hash, orgID, role)
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is already registered"})
			return
		}
		h.logger.Error().Err(err).Str("email", req.Email).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	h.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user created")

	c.JSON(http.StatusCreated, user)
}

type updateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole reassigns a user's role, the only supported user mutation.
// PUT /api/v1/users/:id/role
func (h *UsersHandler) UpdateRole(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	role := models.NormalizeRoleName(req.Role)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role name"})
		return
	}

	// Tenant scoping: callers with an org claim cannot observe users
	// of another organization.
	if claims.OrganizationID != "" {
		existing, err := h.store.GetUserByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			h.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
			return
		}
		if existing.OrganizationID != claims.OrganizationID {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
	}

	user, err := h.store.UpdateUserRole(c.Request.Context(), id, role)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update role")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update role"})
		return
	}

	h.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("user role updated")

	c.JSON(http.StatusOK, user)
}
