package ports

import (
	"context"

	"github.com/shopstack/commerce-api/internal/core/domain"
)

// OrderRepository owns the atomic pairing of order creation with the stock
// decrement, and the read-side join of orders to product snapshots.
type OrderRepository interface {
	// CreateWithStockDecrement inserts the order and decrements the product's
	// stock as a single transaction. The decrement is relative and guarded by
	// stock >= quantity evaluated at decrement time; when the guard fails the
	// transaction aborts with domain.InsufficientStockError. A concurrent
	// write collision aborts with domain.ErrOrderConflict and is not retried
	// here. On any failure neither the order nor the stock change persists.
	// On success the order's ID is filled in.
	CreateWithStockDecrement(ctx context.Context, order *domain.Order) error

	// ListByUser returns the user's orders, each joined with the product's
	// current snapshot. Orders whose product was deleted come back with a nil
	// snapshot rather than an error.
	ListByUser(ctx context.Context, userID string) ([]*domain.OrderWithProduct, error)
}

// OrderEventRecorder persists order audit-trail events.
type OrderEventRecorder interface {
	Record(ctx context.Context, event *domain.OrderEvent) error
}
