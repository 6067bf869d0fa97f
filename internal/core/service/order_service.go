package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const estimatedDeliveryWindow = 3 * 24 * time.Hour

type OrderService struct {
	repo      ports.OrderRepository
	publisher ports.OrderEventPublisher
	logger    zerolog.Logger
	now       func() time.Time
}

var _ ports.OrderService = (*OrderService)(nil)

func NewOrderService(repo ports.OrderRepository, publisher ports.OrderEventPublisher, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, publisher: publisher, logger: logger, now: time.Now}
}

// CreateOrder validates and stores a new pending order. Guests (no requester
// user id) may check out. Only the last four card digits are kept.
func (s *OrderService) CreateOrder(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	order := &domain.Order{
		ID:           generateOrderID(now),
		UserID:       in.Requester.UserID,
		Status:       domain.StatusPending,
		Items:        in.Items,
		ShippingInfo: in.Shipping,
		PaymentInfo: domain.PaymentInfo{
			Method:       in.Payment.Method,
			CardName:     in.Payment.CardName,
			CardLastFour: lastFour(in.Payment),
		},
		CreatedAt:         now,
		EstimatedDelivery: now.Add(estimatedDeliveryWindow),
		StatusHistory: []domain.LocationUpdate{{
			Status:    domain.StatusPending,
			Timestamp: now,
			Notes:     "Order placed",
		}},
	}
	order.Total = roundCents(order.ItemsTotal())

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error().Err(err).Msg("failed to create order")
		return nil, err
	}

	if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish order.created")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Float64("total", order.Total).
		Msg("order created")

	return order, nil
}

// GetOrder returns the order when who may see it: its owner, staff (admin or
// delivery), or anyone for a guest order. Everyone else gets
// domain.ErrOrderNotFound.
func (s *OrderService) GetOrder(ctx context.Context, id string, who ports.Requester) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(order, who) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, who ports.Requester) ([]*domain.Order, error) {
	if who.UserID == "" {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByUser(ctx, who.UserID)
}

func (s *OrderService) Track(ctx context.Context, id string, who ports.Requester) (*domain.Tracking, error) {
	order, err := s.GetOrder(ctx, id, who)
	if err != nil {
		return nil, err
	}
	return domain.TrackingFromOrder(order), nil
}

func canView(o *domain.Order, who ports.Requester) bool {
	switch {
	case o.UserID == "":
		return true
	case who.Role == domain.RoleAdmin || who.Role == domain.RoleDelivery:
		return true
	default:
		return who.UserID != "" && who.UserID == o.UserID
	}
}

func validateOrderInput(in ports.CreateOrderInput) error {
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", domain.ErrInvalidOrder)
	}
	for i, it := range in.Items {
		if it.ID == "" || it.Quantity <= 0 || it.Price < 0 {
			return fmt.Errorf("%w: item %d needs an id, a positive quantity and a price", domain.ErrInvalidOrder, i)
		}
	}
	sh := in.Shipping
	if sh.FirstName == "" || sh.LastName == "" || sh.Address == "" || sh.City == "" || sh.Country == "" {
		return fmt.Errorf("%w: shipping name, address, city and country are required", domain.ErrInvalidOrder)
	}
	if in.Payment.Method == "" {
		return fmt.Errorf("%w: payment method is required", domain.ErrInvalidOrder)
	}
	return nil
}

// lastFour extracts the last four digits of the card number, falling back to
// the client-supplied CardLastFour.
func lastFour(p ports.PaymentInput) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p.CardNumber)
	if len(digits) >= 4 {
		return digits[len(digits)-4:]
	}
	return p.CardLastFour
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// generateOrderID returns an id in the format ORD-<unix ms>-<8 hex chars>.
func generateOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), strings.ToUpper(uuid.NewString()[:8]))
}
