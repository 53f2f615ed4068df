// roles.go implements role-based authorization middleware.
//
// Roles are read from the JWT claims at request time via the session placed in
// the gin context by AuthMiddleware. There are three roles: admin, subadmin,
// and vendor. Admin and subadmin accounts share the operator console; the only
// operator action reserved for full admins is managing subadmin accounts.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
)

// RequireRole aborts with 403 unless the session role is one of the given roles.
// Must be registered after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		for _, role := range roles {
			if sess.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
	}
}

// RequireOperator admits admin and subadmin sessions.
func RequireOperator() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin, auth.RoleSubadmin)
}

// RequireAdmin admits only full admin sessions. Subadmin account management
// goes through this so subadmins cannot escalate each other.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}

// RequireVendor admits only vendor sessions.
func RequireVendor() gin.HandlerFunc {
	return RequireRole(auth.RoleVendor)
}
