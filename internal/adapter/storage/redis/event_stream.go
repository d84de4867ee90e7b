package redis

import (
	"context"
	"fmt"

	"campuscoin-ledger/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// DefaultStream is the stream external observers subscribe to.
const DefaultStream = "campuscoin:events"

// EventStream implements ports.EventPublisher on a Redis stream.
// The durable record of events is the postgres log; the stream is the
// push channel for observers, published post-commit and best effort.
type EventStream struct {
	client *goredis.Client
	stream string
	maxLen int64
}

// NewEventStream creates a Redis-stream event publisher.
func NewEventStream(client *goredis.Client) *EventStream {
	return &EventStream{
		client: client,
		stream: DefaultStream,
		maxLen: 10_000,
	}
}

// Publish appends the event to the stream.
func (s *EventStream) Publish(ctx context.Context, e *domain.Event) error {
	err := s.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":         e.ID.String(),
			"type":       string(e.Type),
			"attributes": string(e.Attributes),
			"created_at": e.CreatedAt.UnixMilli(),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd event: %w", err)
	}
	return nil
}
