package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

// RoleRegistry implements find-or-create over a RoleStore. Concurrent
// creators are reconciled by the store's unique constraint: the loser's
// insert fails with domain.ErrRoleExists and it re-fetches the winner's row.
type RoleRegistry struct {
	store ports.RoleStore
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewRoleRegistry(store ports.RoleStore, audit ports.AuditRecorder, log zerolog.Logger) *RoleRegistry {
	if audit == nil {
		audit = nopRecorder{}
	}
	return &RoleRegistry{store: store, audit: audit, log: log}
}

func (r *RoleRegistry) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	return r.store.FindByName(ctx, name)
}

// Ensure returns the role named name, creating it if absent. When ctx carries
// a pending audit buffer the role_created event is parked there until the
// enclosing transaction commits.
func (r *RoleRegistry) Ensure(ctx context.Context, name domain.RoleName) (*domain.Role, domain.EnsureOutcome, error) {
	if !name.IsValid() {
		return nil, 0, fmt.Errorf("ensure role: %w: %q", domain.ErrUnknownRole, name)
	}

	role, err := r.store.FindByName(ctx, name)
	if err == nil {
		return role, domain.EnsureFound, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, 0, fmt.Errorf("ensure role %s: %w", name, err)
	}

	role, err = r.store.Insert(ctx, name)
	switch {
	case err == nil:
		r.log.Info().Str("role", string(name)).Msg("role created")
		ev := domain.AuditEvent{
			Kind:       domain.AuditRoleCreated,
			Detail:     string(name),
			OccurredAt: time.Now().UTC(),
		}
		if pending := pendingFrom(ctx); pending != nil {
			pending.add(ev)
		} else {
			r.audit.Record(ev)
		}
		return role, domain.EnsureCreated, nil
	case errors.Is(err, domain.ErrRoleExists):
		role, err = r.store.FindByName(ctx, name)
		if err != nil {
			return nil, 0, fmt.Errorf("ensure role %s: refetch after conflict: %w", name, err)
		}
		r.log.Debug().Str("role", string(name)).Msg("role created concurrently, using existing row")
		return role, domain.EnsureRaceRecovered, nil
	default:
		return nil, 0, fmt.Errorf("ensure role %s: %w", name, err)
	}
}

// pendingAudit holds events produced inside a transaction. They are only
// recorded once the transaction commits.
type pendingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

type pendingAuditKey struct{}

func withPendingAudit(ctx context.Context) (context.Context, *pendingAudit) {
	p := &pendingAudit{}
	return context.WithValue(ctx, pendingAuditKey{}, p), p
}

func pendingFrom(ctx context.Context) *pendingAudit {
	p, _ := ctx.Value(pendingAuditKey{}).(*pendingAudit)
	return p
}

func (p *pendingAudit) add(ev domain.AuditEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

// reset drops events from an attempt that is about to be retried.
func (p *pendingAudit) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func (p *pendingAudit) flush(rec ports.AuditRecorder) {
	p.mu.Lock()
	events := p.events
	p.events = nil
	p.mu.Unlock()
	for _, ev := range events {
		rec.Record(ev)
	}
}
