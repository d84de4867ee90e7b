package postgres

import (
	"context"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// EventRepo implements ports.EventRepository, an append-only log.
type EventRepo struct {
	pool Pool
}

// NewEventRepo creates a new EventRepo.
func NewEventRepo(pool Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

// Create appends an event within a database transaction, so the notification
// commits atomically with the mutation it describes.
func (r *EventRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.Event) error {
	query := `INSERT INTO events (id, type, attributes, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := tx.Exec(ctx, query, e.ID, string(e.Type), []byte(e.Attributes), e.CreatedAt); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// List returns recent events, newest first.
func (r *EventRepo) List(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	query := `SELECT id, type, attributes, created_at FROM events
		ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		var eventType string
		var attrs []byte
		if err := rows.Scan(&e.ID, &eventType, &attrs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Type = domain.EventType(eventType)
		e.Attributes = attrs
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
