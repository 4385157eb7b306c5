package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
	"github.com/hasandag/auth-service/pkg/authtoken"
	"github.com/hasandag/auth-service/pkg/logger"
)

// TokenIssuer mints signed tokens; *authtoken.Issuer satisfies it.
type TokenIssuer interface {
	Issue(subject string, authorities []string) (*authtoken.Token, error)
}

// AuthService implements sign-in and registration.
type AuthService struct {
	creds    ports.CredentialStore
	roles    ports.RoleRegistry
	tx       ports.TxManager
	issuer   TokenIssuer
	resolver RoleResolver
	limiter  ports.AttemptLimiter
	audit    ports.AuditRecorder
	cost     int
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

type AuthOption func(*AuthService)

// WithAttemptLimiter enables sign-in lockout after repeated failures.
func WithAttemptLimiter(l ports.AttemptLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

func WithAuditRecorder(r ports.AuditRecorder) AuthOption {
	return func(s *AuthService) { s.audit = r }
}

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.cost = cost }
}

// WithStrictRoles rejects unrecognized role tokens at registration.
func WithStrictRoles(strict bool) AuthOption {
	return func(s *AuthService) { s.resolver = NewRoleResolver(strict) }
}

func NewAuthService(
	creds ports.CredentialStore,
	roles ports.RoleRegistry,
	tx ports.TxManager,
	issuer TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		creds:    creds,
		roles:    roles,
		tx:       tx,
		issuer:   issuer,
		resolver: NewRoleResolver(false),
		limiter:  nopLimiter{},
		audit:    nopRecorder{},
		cost:     bcrypt.DefaultCost,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate verifies the password and issues a token carrying the
// identity's current roles. Unknown users, wrong passwords and disabled
// accounts all fail with domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	blocked, err := s.limiter.Blocked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("attempt limiter unavailable, allowing sign-in")
	} else if blocked {
		s.record(ctx, domain.AuditSignInThrottled, username, "")
		return nil, domain.ErrTooManyAttempts
	}

	identity, reason, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		if lerr := s.limiter.RecordFailure(ctx, username); lerr != nil {
			s.log.Warn().Err(lerr).Str("username", username).Msg("failed to record sign-in failure")
		}
		s.log.Info().Str("username", username).Str("reason", reason).Msg("sign-in rejected")
		s.record(ctx, domain.AuditSignInFailed, username, reason)
		return nil, domain.ErrInvalidCredentials
	}

	if lerr := s.limiter.Reset(ctx, username); lerr != nil {
		s.log.Warn().Err(lerr).Str("username", username).Msg("failed to reset sign-in attempts")
	}

	token, err := s.issuer.Issue(identity.Username, identity.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	s.record(ctx, domain.AuditSignInSucceeded, username, "")
	return &ports.AuthResult{Token: token.Value, ExpiresAt: token.ExpiresAt, Identity: identity}, nil
}

// verify returns a non-empty reason when the credentials are rejected. The
// unknown-user branch still runs a bcrypt comparison so both rejections cost
// the same.
func (s *AuthService) verify(ctx context.Context, username, password string) (*domain.Identity, string, error) {
	identity, err := s.creds.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrIdentityNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.equalizerHash(), []byte(password))
		return nil, "unknown_user", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, "bad_password", nil
	}
	if !identity.Enabled {
		return nil, "disabled", nil
	}
	return identity, "", nil
}

func (s *AuthService) equalizerHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), s.cost)
	})
	return s.dummyHash
}

// Register creates an identity. Duplicate checks, hashing, role resolution
// and persistence run in one transaction; any failure leaves no identity and
// no lazily created role behind.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if err := validateRegistration(username, email, in.Password); err != nil {
		return nil, err
	}

	// Roles created inside the transaction are announced only after commit.
	ctx, pending := withPendingAudit(ctx)

	var created *domain.Identity
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		pending.reset()

		taken, err := s.creds.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if taken {
			return domain.ErrDuplicateUsername
		}

		taken, err = s.creds.ExistsByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return domain.ErrDuplicateEmail
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		names, err := s.resolver.ResolveSet(in.RequestedRoles)
		if err != nil {
			return err
		}

		roles := make([]domain.Role, 0, len(names))
		for _, name := range names {
			role, _, err := s.roles.Ensure(ctx, name)
			if err != nil {
				return err
			}
			roles = append(roles, *role)
		}

		now := time.Now().UTC()
		created, err = s.creds.Save(ctx, &domain.Identity{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Enabled:      true,
			Roles:        roles,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("save identity: %w", err)
		}
		return nil
	})
	if err != nil {
		s.record(ctx, domain.AuditSignUpRejected, username, rejectReason(err))
		if isClientError(err) {
			return nil, err
		}
		s.log.Error().Err(err).Str("username", username).Msg("registration failed")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().
		Str("username", created.Username).
		Strs("roles", created.RoleNames()).
		Msg("identity registered")
	pending.flush(s.audit)
	s.record(ctx, domain.AuditSignUpSucceeded, created.Username, strings.Join(created.RoleNames(), ","))
	return created, nil
}

func (s *AuthService) record(ctx context.Context, kind domain.AuditKind, username, detail string) {
	s.audit.Record(domain.AuditEvent{
		Kind:       kind,
		Username:   username,
		Detail:     detail,
		RequestID:  logger.RequestID(ctx),
		OccurredAt: time.Now().UTC(),
	})
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrDuplicateUsername) ||
		errors.Is(err, domain.ErrDuplicateEmail) ||
		errors.Is(err, domain.ErrUnknownRole) ||
		errors.Is(err, domain.ErrInvalidInput)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate_username"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrUnknownRole):
		return "unknown_role"
	default:
		return "error"
	}
}

type nopLimiter struct{}

func (nopLimiter) Blocked(context.Context, string) (bool, error) { return false, nil }
func (nopLimiter) RecordFailure(context.Context, string) error   { return nil }
func (nopLimiter) Reset(context.Context, string) error           { return nil }
