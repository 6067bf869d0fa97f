package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
}

// OrderEventPublisher announces order lifecycle events to downstream consumers.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *domain.Order) error
}
