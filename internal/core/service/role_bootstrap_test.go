package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/infrastructure/db/memory"
)

var canonical = []string{"ROLE_ADMIN", "ROLE_INSTRUCTOR", "ROLE_MODERATOR", "ROLE_USER"}

func TestRoleBootstrap_Idempotent(t *testing.T) {
	store := memory.New()
	boot := NewRoleBootstrap(NewRoleRegistry(store, nil, zerolog.Nop()), nil, zerolog.Nop())

	for i := 0; i < 2; i++ {
		if err := boot.Run(context.Background()); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if got := roleNames(store); !equalStrings(got, canonical) {
		t.Fatalf("expected %v, got %v", canonical, got)
	}
}

func TestRoleBootstrap_ConcurrentInstances(t *testing.T) {
	store := memory.New()

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < 4; i++ {
		boot := NewRoleBootstrap(NewRoleRegistry(store, nil, zerolog.Nop()), nil, zerolog.Nop())
		g.Go(func() error { return boot.Run(ctx) })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	if got := roleNames(store); !equalStrings(got, canonical) {
		t.Fatalf("expected exactly one row per canonical role, got %v", got)
	}
}

func TestRoleBootstrap_ConfiguredSubset(t *testing.T) {
	store := memory.New()
	boot := NewRoleBootstrap(NewRoleRegistry(store, nil, zerolog.Nop()),
		[]domain.RoleName{domain.RoleUser, domain.RoleAdmin}, zerolog.Nop())

	if err := boot.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := roleNames(store); !equalStrings(got, []string{"ROLE_ADMIN", "ROLE_USER"}) {
		t.Fatalf("unexpected roles: %v", got)
	}
}

func TestRoleBootstrap_FailsOnInvalidName(t *testing.T) {
	boot := NewRoleBootstrap(NewRoleRegistry(memory.New(), nil, zerolog.Nop()),
		[]domain.RoleName{"ROLE_ROOT"}, zerolog.Nop())

	if err := boot.Run(context.Background()); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
