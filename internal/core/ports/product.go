package ports

import (
	"context"

	"github.com/shopfront/storefront/internal/core/domain"
)

// ProductRepository is the hosted catalog database.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
}

// ProductCache holds the serialized catalog between requests. Get returns nil
// bytes and a nil error on a miss.
type ProductCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// CreateProductInput carries a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, in CreateProductInput) (*domain.Product, error)
}
