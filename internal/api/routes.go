// Package api provides the HTTP API for the Taskboard server.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/api/handlers"
	"github.com/taskboard/taskboard/internal/api/middleware"
	"github.com/taskboard/taskboard/internal/auth"
	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/db"
)

// Config holds configuration for the API router.
type Config struct {
	// Environment controls environment-dependent behavior such as CORS policy.
	Environment config.Environment
	// AllowedOrigins for CORS. Empty means all origins allowed in dev mode.
	AllowedOrigins []string
	// RateLimit in limiter notation, e.g. "100-M" for 100 requests per minute.
	RateLimit string
	// EnableMetrics registers the HTTP metrics with the default Prometheus
	// registry. Disable in tests to avoid duplicate registration.
	EnableMetrics bool
}

// DefaultConfig returns a Config with sensible defaults for development.
func DefaultConfig() Config {
	return Config{
		Environment:    config.EnvDevelopment,
		AllowedOrigins: []string{},
		RateLimit:      "100-M",
		EnableMetrics:  true,
	}
}

// Router wraps a Gin engine with configured middleware and routes.
type Router struct {
	Engine *gin.Engine
	logger zerolog.Logger
	db     *db.DB
	tokens *auth.TokenManager
}

// NewRouter creates a new Router with the given dependencies.
func NewRouter(
	cfg Config,
	database *db.DB,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) (*Router, error) {
	r := &Router{
		Engine: gin.New(),
		logger: logger.With().Str("component", "router").Logger(),
		db:     database,
		tokens: tokens,
	}

	// Global middleware. Metrics sits outside Recovery so panicking
	// requests are counted under the status Recovery writes.
	if cfg.EnableMetrics {
		middleware.InitMetrics()
		r.Engine.Use(middleware.Metrics())
		r.Engine.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))
	}
	r.Engine.Use(gin.Recovery())
	r.Engine.Use(middleware.RequestLogger(logger))
	r.Engine.Use(middleware.CORS(cfg.AllowedOrigins, cfg.Environment))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	r.Engine.Use(rateLimiter)

	// Public routes
	public := r.Engine.Group("")

	healthHandler := handlers.NewHealthHandler(database, logger)
	healthHandler.RegisterRoutes(public)

	authenticator := auth.NewAuthenticator(database, tokens, logger)
	authHandler := handlers.NewAuthHandler(authenticator, logger)
	authHandler.RegisterRoutes(public)

	// API v1 routes (auth required)
	apiV1 := r.Engine.Group("/api/v1")
	apiV1.Use(middleware.AuthMiddleware(tokens, logger))

	// Each protected operation declares its required permission here,
	// at registration time.
	guard := func(p auth.Permission) gin.HandlerFunc {
		return middleware.RequirePermission(p, logger)
	}

	tasksHandler := handlers.NewTasksHandler(database, database, logger)
	tasksHandler.RegisterRoutes(apiV1, guard)

	usersHandler := handlers.NewUsersHandler(database, logger)
	usersHandler.RegisterRoutes(apiV1, guard)

	orgsHandler := handlers.NewOrganizationsHandler(database, logger)
	orgsHandler.RegisterRoutes(apiV1, guard)

	auditLogsHandler := handlers.NewAuditLogsHandler(database, logger)
	auditLogsHandler.RegisterRoutes(apiV1, guard)

	accessControlHandler := handlers.NewAccessControlHandler(database, logger)
	accessControlHandler.RegisterRoutes(apiV1)

	return r, nil
}
