// Package memory is a thread-safe in-memory backend for the credential,
// role and audit stores. It is used by tests and by STORE_DRIVER=memory for
// local development.
//
// Transactions are serialized: WithTx holds a write lock for the duration of
// fn and restores a snapshot if fn fails. Writes made outside a transaction
// take the same lock, so a rollback never discards them.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

var (
	_ ports.CredentialStore = (*Store)(nil)
	_ ports.RoleStore       = (*Store)(nil)
	_ ports.AuditRepository = (*Store)(nil)
	_ ports.TxManager       = (*Store)(nil)
)

type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex

	identities map[string]*domain.Identity
	byUsername map[string]string
	byEmail    map[string]string
	roles      map[domain.RoleName]*domain.Role

	eventsMu sync.Mutex
	events   []domain.AuditEvent
}

func New() *Store {
	return &Store{
		identities: make(map[string]*domain.Identity),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		roles:      make(map[domain.RoleName]*domain.Role),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// lockWrite serializes writes issued outside a transaction.
func (s *Store) lockWrite(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

// WithTx implements ports.TxManager. Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	identities map[string]*domain.Identity
	byUsername map[string]string
	byEmail    map[string]string
	roles      map[domain.RoleName]*domain.Role
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		identities: make(map[string]*domain.Identity, len(s.identities)),
		byUsername: make(map[string]string, len(s.byUsername)),
		byEmail:    make(map[string]string, len(s.byEmail)),
		roles:      make(map[domain.RoleName]*domain.Role, len(s.roles)),
	}
	for k, v := range s.identities {
		snap.identities[k] = v.Clone()
	}
	for k, v := range s.byUsername {
		snap.byUsername[k] = v
	}
	for k, v := range s.byEmail {
		snap.byEmail[k] = v
	}
	for k, v := range s.roles {
		r := *v
		snap.roles[k] = &r
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = snap.identities
	s.byUsername = snap.byUsername
	s.byEmail = snap.byEmail
	s.roles = snap.roles
}

// Ping implements ports.Pinger.
func (s *Store) Ping(context.Context) error { return nil }

// ---------- Identities ----------

func (s *Store) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return s.identities[id].Clone(), nil
}

func (s *Store) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byUsername[username]
	return ok, nil
}

// ExistsByEmail compares case-insensitively, matching the unique index of
// the SQL and document backends.
func (s *Store) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (s *Store) Save(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(identity.Email)
	if owner, ok := s.byUsername[identity.Username]; ok && owner != identity.ID {
		return nil, domain.ErrDuplicateUsername
	}
	if owner, ok := s.byEmail[email]; ok && owner != identity.ID {
		return nil, domain.ErrDuplicateEmail
	}

	stored := identity.Clone()
	if stored.ID == "" {
		stored.ID = uuid.Must(uuid.NewV7()).String()
	} else if prev, ok := s.identities[stored.ID]; ok {
		delete(s.byUsername, prev.Username)
		delete(s.byEmail, strings.ToLower(prev.Email))
	}

	s.identities[stored.ID] = stored
	s.byUsername[stored.Username] = stored.ID
	s.byEmail[email] = stored.ID
	return stored.Clone(), nil
}

// ---------- Roles ----------

func (s *Store) FindByName(_ context.Context, name domain.RoleName) (*domain.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	out := *r
	return &out, nil
}

func (s *Store) Insert(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	defer s.lockWrite(ctx)()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.roles[name]; exists {
		return nil, domain.ErrRoleExists
	}
	r := &domain.Role{ID: uuid.Must(uuid.NewV7()).String(), Name: name}
	s.roles[name] = r
	out := *r
	return &out, nil
}

// Roles returns every stored role; tests use it to count rows.
func (s *Store) Roles() []domain.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, *r)
	}
	return out
}

// IdentityCount returns the number of stored identities.
func (s *Store) IdentityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities)
}

// ---------- Audit ----------

// InsertEvent appends to the audit log. Events are not part of transactions.
func (s *Store) InsertEvent(_ context.Context, ev *domain.AuditEvent) error {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	s.events = append(s.events, *ev)
	return nil
}

// Events returns a copy of the audit log.
func (s *Store) Events() []domain.AuditEvent {
	s.eventsMu.Lock()
	defer s.eventsMu.Unlock()
	return append([]domain.AuditEvent(nil), s.events...)
}
