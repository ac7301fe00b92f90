package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
	"github.com/shopstack/commerce-api/internal/pkg/metrics"
)

// ProductCache abstracts the catalog list cache (Redis). Cache failures are
// logged and bypassed; the store stays authoritative.
type ProductCache interface {
	Get(ctx context.Context) ([]*domain.Product, bool, error)
	Set(ctx context.Context, products []*domain.Product) error
	Invalidate(ctx context.Context) error
}

// ProductService implements catalog management.
type ProductService struct {
	repo   ports.ProductRepository
	cache  ProductCache
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, cache ProductCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, cache: cache, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (string, error) {
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return "", err
	}

	s.invalidateCache(ctx)
	metrics.ProductsCreatedTotal.Inc()
	s.logger.Info().Str("product_id", id).Str("name", input.Name).Msg("product created")
	return id, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	if s.cache != nil {
		cached, found, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("product cache read failed, querying store")
		} else if found {
			metrics.ProductCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		} else {
			metrics.ProductCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, products); err != nil {
			s.logger.Warn().Err(err).Msg("product cache write failed")
		}
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id string, update domain.ProductUpdate) error {
	if err := s.repo.Update(ctx, id, update); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// Delete removes the product only. Orders referencing it are preserved and
// keep the dangling reference; the order listing tolerates it.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("product cache invalidation failed")
	}
}
