package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hasandag/auth-service/internal/core/domain"
	"github.com/hasandag/auth-service/internal/core/ports"
)

var _ ports.AuditRepository = (*EventRepository)(nil)

// EventRepository appends audit events to auth_events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	_, err := GetTx(ctx, r.db).ExecContext(ctx,
		`INSERT INTO auth_events (kind, username, detail, request_id, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
		string(event.Kind), event.Username, event.Detail, event.RequestID, event.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
