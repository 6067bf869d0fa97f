package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// RegisterInput carries a new account's details. Role is assigned by the
// caller; public registration always passes domain.RoleUser.
type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Role      domain.Role
}

// Claims is the identity carried by a verified bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   domain.Role
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
