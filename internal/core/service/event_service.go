package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, orderID, status string, ts time.Time) (bool, error)
	Mark(ctx context.Context, orderID, status string, ts time.Time) error
}

type eventService struct {
	orderRepo ports.OrderRepository
	eventRepo ports.EventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	orderRepo ports.OrderRepository,
	eventRepo ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		dedup:     dedup,
		log:       log,
	}
}

// Process validates, deduplicates, and applies a single tracking event.
func (s *eventService) Process(ctx context.Context, in ports.TrackingEventInput) error {
	newStatus := domain.OrderStatus(in.Status)

	// 1. Idempotency check: duplicates are skipped silently.
	isDup, err := s.dedup.IsDuplicate(ctx, in.OrderID, in.Status, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("order_id", in.OrderID).Str("status", in.Status).Msg("duplicate event skipped")
		return nil
	}

	// 2. Find the order. Events come from couriers, not the owner.
	order, err := s.orderRepo.FindByID(ctx, in.OrderID)
	if err != nil {
		return fmt.Errorf("process event: %w", err)
	}

	// 3. Validate state machine transition.
	if !order.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("process event: %w (from %s to %s)", domain.ErrInvalidTransition, order.Status, newStatus)
	}

	// 4. Mark as processed before writing so a retry is not applied twice.
	if markErr := s.dedup.Mark(ctx, in.OrderID, in.Status, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("order_id", in.OrderID).Msg("failed to set dedup key")
	}

	var coords *domain.Coordinates
	if in.Coordinates != nil {
		coords = &domain.Coordinates{Lat: in.Coordinates.Lat, Lng: in.Coordinates.Lng}
	}

	// 5. Atomically move the order and append the history entry.
	update := domain.LocationUpdate{
		Status:      newStatus,
		Location:    in.Location,
		Coordinates: coords,
		Timestamp:   in.Timestamp,
		Notes:       "via " + in.Source,
	}
	if err := s.eventRepo.UpdateOrderStatus(ctx, in.OrderID, order.Status, update); err != nil {
		return fmt.Errorf("process event: update status: %w", err)
	}

	// 6. Audit trail (non-fatal on failure).
	auditEvent := &domain.TrackingEvent{
		OrderID:     in.OrderID,
		Status:      newStatus,
		Timestamp:   in.Timestamp,
		Source:      in.Source,
		Location:    in.Location,
		Coordinates: coords,
	}
	if err := s.eventRepo.InsertEvent(ctx, auditEvent); err != nil {
		s.log.Warn().Err(err).Str("order_id", in.OrderID).Msg("failed to insert audit event")
	}

	s.log.Info().
		Str("order_id", in.OrderID).
		Str("status", in.Status).
		Str("source", in.Source).
		Msg("event processed")

	return nil
}
