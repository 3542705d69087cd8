package impl

import (
	"context"
	"log/slog"

	deliverycontext "dinein/internal/delivery/context"
	"dinein/internal/domain/service"

	"github.com/google/uuid"
)

// eventEmitter stamps and publishes session events. Publishing failures never
// fail the operation that caused the event.
type eventEmitter struct {
	publisher service.EventPublisher
	clock     service.Clock
	logger    *slog.Logger
}

func (e eventEmitter) emit(ctx context.Context, event service.SessionEvent) {
	if e.publisher == nil {
		return
	}

	event.EventID = uuid.New().String()
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	event.OccurredAt = e.clock.Now().UTC()

	if err := e.publisher.PublishSessionEvent(ctx, &event); err != nil {
		deliverycontext.GetLoggerOrDefault(ctx, e.logger).Warn("Failed to publish session event",
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}
