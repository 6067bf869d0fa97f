package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront/internal/core/domain"
	"github.com/shopfront/storefront/internal/core/ports"
)

const (
	productCachePrefix = "products:"
	productListKey     = productCachePrefix + "all"
)

// ProductService serves the catalog from the database through a read-through
// cache.
type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ProductCache
	logger zerolog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

// ListProducts returns the catalog. Cache failures are logged and bypassed.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cached, err := s.cache.Get(ctx, productListKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("product cache read failed")
	}
	if cached != nil {
		var products []domain.Product
		if err := json.Unmarshal(cached, &products); err == nil {
			return products, nil
		}
		s.logger.Warn().Msg("discarding undecodable product cache entry")
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	if err := s.cache.Set(ctx, productListKey, products); err != nil {
		s.logger.Warn().Err(err).Msg("product cache write failed")
	}
	return products, nil
}

// CreateProduct stores a catalog entry and invalidates cached listings.
func (s *ProductService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price < 0 {
		return nil, fmt.Errorf("%w: name is required and price must not be negative", domain.ErrInvalidProduct)
	}

	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Image:       in.Image,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.cache.DeleteByPrefix(ctx, productCachePrefix); err != nil {
		s.logger.Warn().Err(err).Msg("product cache invalidation failed")
	}

	s.logger.Info().Str("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}
