package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that writes events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process stamps and persists a single audit event.
func (s *auditService) Process(ctx context.Context, ev domain.AuditEvent) error {
	if ev.Kind == "" {
		return fmt.Errorf("process audit event: empty kind")
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	if err := s.repo.InsertEvent(ctx, &ev); err != nil {
		return fmt.Errorf("process audit event: %w", err)
	}

	s.log.Debug().
		Str("kind", string(ev.Kind)).
		Str("username", ev.Username).
		Msg("audit event stored")
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEvent) {}
