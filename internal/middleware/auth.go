// Package middleware provides Gin HTTP middleware for authentication,
// authorization, rate limiting, security headers, and request telemetry.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → CORS → RateLimit → Auth → RBAC → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before auth to block brute-force attacks before any
// signature verification or DB work. Auth populates the session identity;
// the role checks in roles.go read from that context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
)

// SessionKey is the gin.Context key under which the authenticated session is stored.
const SessionKey = "session"

// AuthMiddleware validates the Bearer JWT on the request and stores the
// resulting auth.Session in the gin context. Requests without a valid token
// are rejected with 401 before reaching any handler.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing authorization header",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must start with 'Bearer '",
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is empty",
			})
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(SessionKey, &auth.Session{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		})

		c.Next()
	}
}

// OptionalAuthMiddleware behaves like AuthMiddleware but lets unauthenticated
// requests through without a session. Handlers that vary their response by
// role (e.g. the public vendor profile, which operators can preview before
// approval) use this.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.Next()
			return
		}

		if claims, err := auth.ValidateJWT(token); err == nil {
			c.Set(SessionKey, &auth.Session{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			})
		}

		c.Next()
	}
}

// SessionFrom returns the authenticated session stored by AuthMiddleware,
// or nil when the request carries no valid session.
func SessionFrom(c *gin.Context) *auth.Session {
	val, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	sess, ok := val.(*auth.Session)
	if !ok {
		return nil
	}
	return sess
}
