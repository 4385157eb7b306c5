package ports

import (
	"context"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller on persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists a single audit event; the dispatcher workers call it.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
