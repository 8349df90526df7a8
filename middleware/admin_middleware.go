package middleware

import (
	"net/http"

	"github.com/arboriq/arboriq-api/models"
	"github.com/gin-gonic/gin"
)

// RequireRoles creates a middleware that ensures the user holds one of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get role from context (set by AuthMiddleware)
		value, exists := c.Get(RoleKey)
		if !exists {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		role, _ := value.(models.Role)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// AdminMiddleware creates a middleware that ensures the user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.RoleAdmin)
}
