package ports

import (
	"context"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// CredentialStore persists identities. Username and email uniqueness is
// enforced by the backing store, not by callers.
type CredentialStore interface {
	// FindByUsername returns domain.ErrIdentityNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Save inserts the identity when ID is empty (assigning one) and updates it
	// otherwise. Unique violations surface as domain.ErrDuplicateUsername or
	// domain.ErrDuplicateEmail.
	Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
}

// RoleStore persists roles. Role name uniqueness is enforced by the store.
type RoleStore interface {
	// FindByName returns domain.ErrRoleNotFound when absent.
	FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error)
	// Insert returns domain.ErrRoleExists when another row already holds name.
	Insert(ctx context.Context, name domain.RoleName) (*domain.Role, error)
}

// TxManager runs fn atomically. Store calls made with the ctx passed to fn
// join the transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}
