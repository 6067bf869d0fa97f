package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/storefront/internal/core/domain"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *mockChannel) Close() error {
	return m.Called().Error(0)
}

func sampleOrder() *domain.Order {
	return &domain.Order{
		ID:          "ORD-1772366400000-ABCD1234",
		UserID:      "u-1",
		Items:       []domain.OrderItem{{ID: "p1", Quantity: 2, Price: 10}, {ID: "p2", Quantity: 1, Price: 5}},
		PaymentInfo: domain.PaymentInfo{Method: "credit"},
		Total:       25,
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishOrderCreated(t *testing.T) {
	ch := new(mockChannel)
	p := &Publisher{exchange: "storefront.orders", log: zerolog.Nop(), ch: ch}

	var sent amqp.Publishing
	ch.On("Publish", "storefront.orders", RoutingKeyOrderCreated, false, false, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
		Return(nil)

	require.NoError(t, p.PublishOrderCreated(context.Background(), sampleOrder()))
	ch.AssertExpectations(t)

	assert.Equal(t, "application/json", sent.ContentType)
	assert.Equal(t, amqp.Persistent, sent.DeliveryMode)
	assert.Equal(t, "ORD-1772366400000-ABCD1234", sent.MessageId)

	var ev OrderCreatedEvent
	require.NoError(t, json.Unmarshal(sent.Body, &ev))
	assert.Equal(t, "u-1", ev.UserID)
	assert.Equal(t, 3, ev.ItemCount)
	assert.Equal(t, "credit", ev.PaymentMethod)
	assert.InDelta(t, 25.0, ev.Total, 0.001)
}

func TestPublishOrderCreated_BrokerError(t *testing.T) {
	ch := new(mockChannel)
	p := &Publisher{exchange: "x", log: zerolog.Nop(), ch: ch}
	ch.On("Publish", "x", RoutingKeyOrderCreated, false, false, mock.Anything).Return(amqp.ErrClosed)

	err := p.PublishOrderCreated(context.Background(), sampleOrder())
	assert.True(t, errors.Is(err, amqp.ErrClosed))
}

func TestPublishOrderCreated_CancelledContext(t *testing.T) {
	ch := new(mockChannel)
	p := &Publisher{exchange: "x", log: zerolog.Nop(), ch: ch}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.PublishOrderCreated(ctx, sampleOrder()), context.Canceled)
	ch.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{Log: zerolog.Nop()}.PublishOrderCreated(context.Background(), sampleOrder()))
}
