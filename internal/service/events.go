package service

import (
	"context"

	"campuscoin-ledger/internal/core/domain"
	"campuscoin-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// eventEmitter pushes committed events to the stream and webhook observers.
// Both channels are best effort: the durable record is the postgres event
// log written inside the operation's transaction.
type eventEmitter struct {
	publisher ports.EventPublisher
	notifier  ports.Notifier
	log       zerolog.Logger
}

func (e *eventEmitter) emit(ctx context.Context, evt *domain.Event) {
	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, evt); err != nil {
			e.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("failed to publish event to stream")
		}
	}
	if e.notifier != nil {
		e.notifier.Notify(evt)
	}
}
