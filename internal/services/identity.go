package services

import (
	"context"
	"errors"
	"strings"

	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
	"citycare-backend/pkg/auth"
)

// IdentityResolver maps a bearer token to exactly one account across the
// four account collections.
type IdentityResolver struct {
	store *storage.Store
	jwt   *auth.JWTManager
}

func NewIdentityResolver(store *storage.Store, jwt *auth.JWTManager) *IdentityResolver {
	return &IdentityResolver{store: store, jwt: jwt}
}

// Resolve validates the token and loads the account named by its email
// claim. The role claim is ignored; the collection that matches decides.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*models.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := r.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return r.FindByEmail(ctx, claims.Email)
}

// FindByEmail probes Citizen, Technician, Officer and Head in that order
// and returns the first match.
func (r *IdentityResolver) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	email = normalizeEmail(email)

	for _, role := range models.ResolutionOrder() {
		id, err := r.findIn(ctx, role, email)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrAccountNotFound
}

func (r *IdentityResolver) findIn(ctx context.Context, role models.Role, email string) (*models.Identity, error) {
	switch role {
	case models.RoleCitizen:
		c, err := r.store.Citizens.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return models.CitizenIdentity(c), nil
	case models.RoleTechnician:
		t, err := r.store.Technicians.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return models.TechnicianIdentity(t), nil
	case models.RoleOfficer:
		o, err := r.store.Officers.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return models.OfficerIdentity(o), nil
	case models.RoleHead:
		h, err := r.store.Heads.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return models.HeadIdentity(h), nil
	}
	return nil, storage.ErrNotFound
}

// RequireRole resolves the caller and rejects any role other than role.
func (r *IdentityResolver) RequireRole(ctx context.Context, token string, role models.Role) (*models.Identity, error) {
	id, err := r.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := RequireRole(id, role); err != nil {
		return nil, err
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
