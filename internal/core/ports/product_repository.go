package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) error
	Delete(ctx context.Context, id string) error
}
