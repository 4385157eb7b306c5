package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

const defaultCloseTimeout = 5 * time.Second

// syncRecorder persists audit events inline. Used by one-shot commands.
type syncRecorder struct {
	ctx context.Context
	svc ports.AuditService
	log zerolog.Logger
}

func (r syncRecorder) Record(ev domain.AuditEvent) {
	if err := r.svc.Process(r.ctx, ev); err != nil {
		r.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("audit event not stored")
	}
}
