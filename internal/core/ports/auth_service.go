package ports

import (
	"context"
	"time"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// RegisterInput carries a sign-up request after transport validation.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	FirstName      string
	LastName       string
	RequestedRoles []string
}

// AuthResult is returned by a successful sign-in.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Identity, error)
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
}

// RoleRegistry is the find-or-create view over roles used by registration
// and bootstrap.
type RoleRegistry interface {
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	Ensure(ctx context.Context, name domain.RoleName) (*domain.Role, domain.EnsureOutcome, error)
}

// AttemptLimiter tracks consecutive sign-in failures per username.
type AttemptLimiter interface {
	// Blocked reports whether username is currently locked out.
	Blocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
