package ports

import (
	"context"

	"github.com/hasandag/auth-service/internal/core/domain"
)

// AuditRepository persists audit events to the auth_events collection/table.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
