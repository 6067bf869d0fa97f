// Package rabbitmq announces order lifecycle events on an AMQP topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// RoutingKeyOrderCreated is published once per accepted order.
const RoutingKeyOrderCreated = "order.created"

// Config holds the broker connection details.
type Config struct {
	URL      string
	Exchange string
}

// OrderCreatedEvent is the message body for RoutingKeyOrderCreated.
type OrderCreatedEvent struct {
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId,omitempty"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"itemCount"`
	PaymentMethod string    `json:"paymentMethod"`
	CreatedAt     time.Time `json:"createdAt"`
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.OrderEventPublisher over AMQP.
type Publisher struct {
	conn     *amqp.Connection
	exchange string
	log      zerolog.Logger

	mu sync.Mutex
	ch channel
}

var _ ports.OrderEventPublisher = (*Publisher)(nil)

// Dial connects to the broker and declares the durable topic exchange.
func Dial(cfg Config, log zerolog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", cfg.Exchange, err)
	}

	return &Publisher{conn: conn, exchange: cfg.Exchange, log: log, ch: ch}, nil
}

// PublishOrderCreated sends a persistent order.created message.
func (p *Publisher) PublishOrderCreated(ctx context.Context, o *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewOrderCreatedEvent(o))
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, RoutingKeyOrderCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    o.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKeyOrderCreated, err)
	}

	p.log.Debug().Str("order_id", o.ID).Str("routing_key", RoutingKeyOrderCreated).Msg("order event published")
	return nil
}

// Close shuts the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("amqp close: %v", errs)
	}
	return nil
}

func NewOrderCreatedEvent(o *domain.Order) OrderCreatedEvent {
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
	}
	return OrderCreatedEvent{
		OrderID:       o.ID,
		UserID:        o.UserID,
		Total:         o.Total,
		ItemCount:     count,
		PaymentMethod: o.PaymentInfo.Method,
		CreatedAt:     o.CreatedAt,
	}
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct {
	Log zerolog.Logger
}

func (n NopPublisher) PublishOrderCreated(_ context.Context, o *domain.Order) error {
	n.Log.Debug().Str("order_id", o.ID).Msg("no broker configured, order event dropped")
	return nil
}
