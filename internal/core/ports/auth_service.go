package ports

import (
	"context"

	"github.com/stepwise/stepwise-api/internal/core/domain"
)

// UpdateProfileInput carries a partial profile update; nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name      *string
	AvatarURL *string
}

// AuthService handles registration, login, and credential verification.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error)
}

// TokenVerifier checks a bearer credential and yields the user it identifies.
// Returns domain.ErrTokenExpired for stale tokens and
// domain.ErrInvalidCredentials for everything else that fails verification.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}
