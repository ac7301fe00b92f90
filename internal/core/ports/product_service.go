package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// CreateProductInput carries the fields of a new product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int64
}

// ProductService defines catalog management use cases.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (string, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, update domain.ProductUpdate) error
	// Delete removes the product. Existing orders referencing it are left
	// untouched and keep their now-dangling reference.
	Delete(ctx context.Context, id string) error
}
