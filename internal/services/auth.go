package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"citycare-backend/internal/metrics"
	"citycare-backend/internal/models"
	"citycare-backend/internal/storage"
	"citycare-backend/pkg/auth"
)

type LoginInput struct {
	Email    string
	Password string
	OTP      string
	// Role is what the client believes it is; it never selects the account.
	Role string
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	OTP      string
}

type AuthResult struct {
	Token   string      `json:"token"`
	Role    models.Role `json:"role"`
	Message string      `json:"message"`
}

type Authenticator struct {
	store    *storage.Store
	resolver *IdentityResolver
	otp      *OTPIssuer
	jwt      *auth.JWTManager
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewAuthenticator(store *storage.Store, resolver *IdentityResolver, otp *OTPIssuer, jwt *auth.JWTManager, m *metrics.Metrics) *Authenticator {
	return &Authenticator{
		store:    store,
		resolver: resolver,
		otp:      otp,
		jwt:      jwt,
		metrics:  m,
		now:      time.Now,
	}
}

// Login authenticates by OTP when one is given, otherwise by password.
func (a *Authenticator) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	switch {
	case in.OTP != "":
		id, err := a.resolver.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if err := a.otp.Consume(ctx, id.Email(), in.OTP); err != nil {
			return nil, err
		}
		return a.issue(id, "Login successful")

	case in.Password != "":
		id, err := a.resolver.FindByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if !auth.CheckPassword(id.PasswordHash(), in.Password) {
			return nil, ErrInvalidCredential
		}
		return a.issue(id, "Login successful")
	}
	return nil, ErrMissingCredential
}

// Signup creates a citizen account. The otp must be live for the email and
// is consumed only when the account is created.
func (a *Authenticator) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	if err := a.otp.Verify(ctx, email, in.OTP); err != nil {
		return nil, err
	}

	if _, err := a.store.Citizens.FindByEmail(ctx, email); err == nil {
		return nil, ErrAccountExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := a.otp.Consume(ctx, email, in.OTP); err != nil {
		return nil, err
	}

	now := a.now()
	citizen := &models.Citizen{
		AccountBase: models.AccountBase{
			Name:         in.Name,
			Email:        email,
			Phone:        in.Phone,
			PasswordHash: hash,
			Role:         models.RoleCitizen,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		Addresses: []models.Address{},
		IsActive:  true,
	}
	if err := a.store.Citizens.Save(ctx, citizen); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create citizen: %w", err)
	}
	a.metrics.IncrementAccountsCreated(string(models.RoleCitizen))

	return a.issue(models.CitizenIdentity(citizen), "Signup successful")
}

func (a *Authenticator) issue(id *models.Identity, message string) (*AuthResult, error) {
	token, err := a.jwt.GenerateToken(id.ID(), id.Email(), string(id.Role))
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, Role: id.Role, Message: message}, nil
}
