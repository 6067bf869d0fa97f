package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// AuthPayload is what a data source returns from register/login. User is
// unvalidated; the client runs it through the user validator.
type AuthPayload struct {
	User    domain.UserPayload
	Token   string
	Message string
	Mock    bool
}

// AuthSource is the authentication capability offered by both the remote API
// and the mock provider.
type AuthSource interface {
	Register(ctx context.Context, in domain.Registration) (*AuthPayload, error)
	Login(ctx context.Context, email, password string) (*AuthPayload, error)
	// Me resolves the user behind token. A nil payload with a nil error means
	// the source knows of no user.
	Me(ctx context.Context, token string) (domain.UserPayload, error)
}

// OrderSource is the order capability offered by both the remote API and the
// mock provider. token may be empty for guest requests.
type OrderSource interface {
	SaveOrder(ctx context.Context, token string, o domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, token, id string) (*domain.Order, error)
	UserOrders(ctx context.Context, token string) ([]domain.Order, error)
	TrackOrder(ctx context.Context, token, id string) (*domain.Tracking, error)
}
