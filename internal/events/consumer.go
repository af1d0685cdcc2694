package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a progress event delivered from the queue
type Handler func(envelope *Envelope)

// Consumer delivers progress events to handlers registered per event type
// (for dashboards and other observers)
type Consumer struct {
	conn       *Connection
	handlers   map[string]Handler
	handlersMu sync.RWMutex
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewConsumer creates a progress event consumer
func NewConsumer(conn *Connection) *Consumer {
	return &Consumer{
		conn:     conn,
		handlers: make(map[string]Handler),
	}
}

// Subscribe registers a handler for an event type, replacing any previous one
func (c *Consumer) Subscribe(eventType string, handler Handler) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.handlers[eventType] = handler
}

// Unsubscribe removes the handler for an event type
func (c *Consumer) Unsubscribe(eventType string) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	delete(c.handlers, eventType)
}

// Start begins consuming progress events
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	msgs, err := ch.Consume(
		ProgressQueueName,
		"",    // consumer tag
		true,  // auto-ack (events are fire-and-forget for observers)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start progress event consumer: %w", err)
	}

	c.wg.Add(1)
	go c.consume(ctx, msgs)

	return nil
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			envelope, err := decodeEnvelope(msg.Body)
			if err != nil {
				slog.Error("failed to decode progress event", "error", err)
				continue
			}

			c.handlersMu.RLock()
			handler, ok := c.handlers[envelope.Type]
			c.handlersMu.RUnlock()

			if ok {
				handler(envelope)
			}
		}
	}
}

// Stop stops the consumer
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}
