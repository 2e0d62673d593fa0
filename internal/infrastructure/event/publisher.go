package event

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendormart/backend/internal/domain/shared"
)

// LoggingEventPublisher writes domain events to the structured log. It stands
// in for a message broker; downstream consumers tail the event log.
type LoggingEventPublisher struct {
	logger *zap.Logger
}

// NewLoggingEventPublisher creates a publisher that logs every event
func NewLoggingEventPublisher(logger *zap.Logger) *LoggingEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingEventPublisher{logger: logger.Named("events")}
}

var _ shared.EventPublisher = (*LoggingEventPublisher)(nil)

// Publish logs the given events
func (p *LoggingEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		p.logger.Info("domain event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
	}
	return nil
}
