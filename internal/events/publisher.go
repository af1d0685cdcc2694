package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirikab-27/courselab/internal/domain"
)

// publishTimeout bounds each forwarded publish so a stalled broker
// cannot block the dispatching goroutine indefinitely.
const publishTimeout = 5 * time.Second

// Publisher forwards domain events to the progress queue
type Publisher struct {
	conn *Connection
}

// NewPublisher creates a new progress event publisher
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish sends a single domain event to the progress queue
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	if err := p.conn.PublishJSON(ctx, ProgressQueueName, event); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType(), err)
	}

	slog.Debug("published progress event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"aggregate_id", event.AggregateID(),
	)

	return nil
}

// Attach subscribes the publisher to a dispatcher so every domain event
// is forwarded to the queue. Forwarding is best-effort: a failed publish
// logs a warning and the event is dropped.
func (p *Publisher) Attach(dispatcher *domain.EventDispatcher) {
	dispatcher.SubscribeAll(func(event domain.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			slog.Warn("progress event publish failed",
				"event_type", event.EventType(),
				"error", err,
			)
		}
	})
}
