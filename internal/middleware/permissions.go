// internal/middleware/permissions.go

package middleware

import (
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only when the resolved identity
// has one of roles. It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	required := make([]string, 0, len(roles))
	for _, r := range roles {
		required = append(required, string(r))
	}

	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "User not authenticated",
			})
			c.Abort()
			return
		}

		if err := services.RequireRole(identity, roles...); err != nil {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"required_role": required,
				"user_role":     string(identity.Role),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
