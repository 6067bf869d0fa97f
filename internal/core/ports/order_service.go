package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// Requester identifies who is asking. An empty UserID means an anonymous
// (guest) request.
type Requester struct {
	UserID string
	Role   domain.Role
}

// CreateOrderInput carries all data needed to place an order.
type CreateOrderInput struct {
	Requester Requester
	Items     []domain.OrderItem
	Shipping  domain.ShippingInfo
	Payment   PaymentInput
}

// PaymentInput accepts a full card number; only its last four digits are kept.
type PaymentInput struct {
	Method       string
	CardName     string
	CardNumber   string
	CardLastFour string
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string, who Requester) (*domain.Order, error)
	ListUserOrders(ctx context.Context, who Requester) ([]*domain.Order, error)
	Track(ctx context.Context, id string, who Requester) (*domain.Tracking, error)
}
