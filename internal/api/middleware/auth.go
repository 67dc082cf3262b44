// Package middleware provides HTTP middleware for the Taskboard API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/taskboard/taskboard/internal/auth"
)

// ContextKey is the type for context keys used by this package.
type ContextKey string

// ClaimsContextKey is the context key for the authenticated caller's claims.
const ClaimsContextKey ContextKey = "claims"

// AuthMiddleware returns a Gin middleware that requires a valid bearer token.
// Verified claims are stored in the Gin context for handlers to access.
func AuthMiddleware(tokens *auth.TokenManager, logger zerolog.Logger) gin.HandlerFunc {
	log := logger.With().Str("component", "auth_middleware").Logger()

	return func(c *gin.Context) {
		raw := auth.ExtractBearerToken(c.Request.Header.Get("Authorization"))
		if raw == "" {
			log.Debug().Str("path", c.Request.URL.Path).Msg("missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := tokens.Verify(raw)
		if err != nil {
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(string(ClaimsContextKey), claims)

		log.Debug().
			Str("user_id", claims.UserID.String()).
			Str("role", claims.Role).
			Str("path", c.Request.URL.Path).
			Msg("authenticated request")

		c.Next()
	}
}

// GetClaims retrieves the verified claims from the Gin context.
// Returns nil if the request is unauthenticated.
func GetClaims(c *gin.Context) *auth.Claims {
	v, exists := c.Get(string(ClaimsContextKey))
	if !exists {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
