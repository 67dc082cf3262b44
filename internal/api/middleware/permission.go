package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
)

// RequirePermission returns a Gin middleware that rejects callers whose role
// does not grant the given permission. Must run after AuthMiddleware.
// Unknown roles and missing claims are denied.
func RequirePermission(required auth.Permission, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "access_guard").Logger()

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if err := auth.Authorize(claims, required); err != nil {
			role := ""
			if claims != nil {
				role = claims.Role
			}
			log.Warn().
				Str("role", role).
				Str("permission", string(required)).
				Str("path", c.Request.URL.Path).
				Msg("permission denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}

		c.Next()
	}
}
