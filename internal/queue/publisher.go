package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"lendaround-backend/internal/logger"
)

const (
	QueueBookingCreated       = "booking.created"
	QueueBookingStatusChanged = "booking.status_changed"
)

// Publisher sends booking events to RabbitMQ over a single long-lived
// connection, redialing when the broker drops it. A nil Publisher or an
// empty URL disables publishing, so callers can fan out unconditionally.
// Errors are logged and returned; publishing is best-effort and never
// interrupts the request that triggered it.
type Publisher struct {
	url string

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	declared map[string]bool
}

func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return &Publisher{url: url}
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, event BookingCreatedEvent) error {
	return p.publish(ctx, QueueBookingCreated, event)
}

func (p *Publisher) PublishBookingStatusChanged(ctx context.Context, event BookingStatusChangedEvent) error {
	return p.publish(ctx, QueueBookingStatusChanged, event)
}

// Close releases the broker connection. Safe on a nil Publisher.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

// channel returns the open channel, dialing first if the connection was
// never established or the broker dropped it. Caller holds p.mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.conn.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	p.conn = conn
	p.ch = ch
	p.declared = make(map[string]bool)
	return ch, nil
}

// reset drops the current connection so the next publish redials. Caller
// holds p.mu.
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.declared = nil
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("rabbitmq event marshal failed", "queue", queueName, "error", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		logger.Error("rabbitmq connect failed", "queue", queueName, "error", err)
		return err
	}

	// Idempotent declare, once per queue per connection; durable so messages
	// survive broker restarts.
	if !p.declared[queueName] {
		if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			logger.Error("rabbitmq queue declare failed", "queue", queueName, "error", err)
			p.reset()
			return err
		}
		p.declared[queueName] = true
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		logger.Error("rabbitmq publish failed", "queue", queueName, "error", err)
		p.reset()
		return err
	}
	return nil
}
