package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

// RoleBootstrap makes sure every canonical role exists. It is safe to run
// repeatedly and from several process instances at once.
type RoleBootstrap struct {
	registry ports.RoleRegistry
	names    []domain.RoleName
	log      zerolog.Logger
}

// NewRoleBootstrap uses domain.CanonicalRoles when names is empty.
func NewRoleBootstrap(registry ports.RoleRegistry, names []domain.RoleName, log zerolog.Logger) *RoleBootstrap {
	if len(names) == 0 {
		names = domain.CanonicalRoles()
	}
	return &RoleBootstrap{registry: registry, names: names, log: log}
}

func (b *RoleBootstrap) Run(ctx context.Context) error {
	b.log.Info().Int("roles", len(b.names)).Msg("initializing roles")

	for _, name := range b.names {
		_, outcome, err := b.registry.Ensure(ctx, name)
		if err != nil {
			return fmt.Errorf("bootstrap roles: %w", err)
		}
		b.log.Info().Str("role", string(name)).Str("outcome", outcome.String()).Msg("role ensured")
	}

	b.log.Info().Msg("roles initialization completed")
	return nil
}
