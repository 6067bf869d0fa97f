package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// EventRepository handles tracking-event persistence and atomic order status updates.
type EventRepository interface {
	// UpdateOrderStatus atomically moves the order from status from to
	// update.Status and appends update to its status history. It returns
	// domain.ErrInvalidTransition when the order is no longer in status from.
	UpdateOrderStatus(ctx context.Context, orderID string, from domain.OrderStatus, update domain.LocationUpdate) error

	// InsertEvent persists an event to the tracking_events audit collection.
	InsertEvent(ctx context.Context, event *domain.TrackingEvent) error
}
