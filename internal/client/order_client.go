package client

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

// OrderPolicies sets the fallback policy per order operation.
type OrderPolicies struct {
	Save  FallbackPolicy
	List  FallbackPolicy
	Get   FallbackPolicy
	Track FallbackPolicy
}

// DefaultOrderPolicies lets checkout and order history survive an outage
// while single-order lookups and tracking report it.
func DefaultOrderPolicies() OrderPolicies {
	return OrderPolicies{
		Save:  AnyError(),
		List:  AnyError(),
		Get:   Never(),
		Track: Never(),
	}
}

// OrderClient creates, lists, fetches and tracks orders, attaching the
// session's bearer token when there is one.
type OrderClient struct {
	remote   ports.OrderSource
	mock     ports.OrderSource
	policies OrderPolicies
	session  *Session
	log      zerolog.Logger
}

func NewOrderClient(remote, mock ports.OrderSource, policies OrderPolicies, session *Session, log zerolog.Logger) *OrderClient {
	return &OrderClient{
		remote:   remote,
		mock:     mock,
		policies: policies,
		session:  session,
		log:      log,
	}
}

func (c *OrderClient) token(ctx context.Context) string {
	tok, err := c.session.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not read session token, sending request without it")
		return ""
	}
	return tok
}

// SaveOrder submits a checkout. Guests may check out without a token.
func (c *OrderClient) SaveOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tok := c.token(ctx)
	out, mocked, err := degrade(ctx, c.log, "save_order", c.policies.Save, c.remote, c.mock,
		func(src ports.OrderSource) (*domain.Order, error) {
			return src.SaveOrder(ctx, tok, o)
		})
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("order_id", out.ID).Bool("mock", mocked).Msg("order saved")
	return out, nil
}

func (c *OrderClient) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, domain.NewValidationError("Order id is required")
	}
	tok := c.token(ctx)
	out, _, err := degrade(ctx, c.log, "get_order", c.policies.Get, c.remote, c.mock,
		func(src ports.OrderSource) (*domain.Order, error) {
			return src.GetOrder(ctx, tok, id)
		})
	return out, err
}

func (c *OrderClient) GetUserOrders(ctx context.Context) ([]domain.Order, error) {
	tok := c.token(ctx)
	out, _, err := degrade(ctx, c.log, "user_orders", c.policies.List, c.remote, c.mock,
		func(src ports.OrderSource) ([]domain.Order, error) {
			return src.UserOrders(ctx, tok)
		})
	return out, err
}

func (c *OrderClient) TrackOrder(ctx context.Context, id string) (*domain.Tracking, error) {
	if id == "" {
		return nil, domain.NewValidationError("Order id is required")
	}
	tok := c.token(ctx)
	out, _, err := degrade(ctx, c.log, "track_order", c.policies.Track, c.remote, c.mock,
		func(src ports.OrderSource) (*domain.Tracking, error) {
			return src.TrackOrder(ctx, tok, id)
		})
	return out, err
}
