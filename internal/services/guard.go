package services

import (
	"citycare-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequireRole accepts id when its role is one of roles.
func RequireRole(id *models.Identity, roles ...models.Role) error {
	if id == nil {
		return ErrUnauthenticated
	}
	for _, role := range roles {
		if id.Role == role {
			return nil
		}
	}
	return ErrUnauthorized
}

// RequireOwner accepts the call when the caller's id is the record owner.
func RequireOwner(callerID, ownerID primitive.ObjectID) error {
	if callerID.IsZero() || callerID != ownerID {
		return ErrUnauthorized
	}
	return nil
}
