package middleware

import (
	"context"
	"errors"
	"net/http"

	"citycare-backend/internal/models"
	"citycare-backend/internal/services"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityResolver turns a bearer token into the calling account.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// AuthMiddleware resolves the caller before any handler runs and stores
// the identity in the gin context.
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			c.Abort()
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), authHeader)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			case errors.Is(err, services.ErrAccountNotFound):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.ID().Hex())
		c.Set("role", string(identity.Role))

		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}
