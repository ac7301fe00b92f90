package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// PlaceOrderInput carries a purchase request.
type PlaceOrderInput struct {
	UserID    string
	ProductID string
	Quantity  int64
}

// OrderService defines the order use cases: the transactional placement path
// and the read-side listing.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	ListOrdersForUser(ctx context.Context, userID string) ([]*domain.OrderWithProduct, error)
}
