package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
	"github.com/shopstack/commerce-api/internal/pkg/metrics"
)

// AuditSink receives successful placements for asynchronous audit recording.
type AuditSink interface {
	Enqueue(event domain.OrderEvent)
}

// OrderService implements the inventory ledger and the order query side.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	audit    AuditSink
	logger   zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, audit AuditSink, logger zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, audit: audit, logger: logger}
}

// PlaceOrder reserves stock and records the purchase as one atomic unit.
//
// The product is read once outside the transaction to fail fast on missing
// products and obviously insufficient stock. Correctness does not depend on
// that read: the transactional decrement is relative and guarded by
// stock >= quantity at decrement time, so a concurrent drain between the
// pre-check and the commit aborts cleanly instead of going negative.
func (s *OrderService) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	start := time.Now()

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < input.Quantity {
		metrics.OrdersPlacedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, &domain.InsufficientStockError{Available: product.Stock}
	}

	order := &domain.Order{
		UserID:     input.UserID,
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		TotalPrice: product.Price * float64(input.Quantity),
		Status:     domain.StatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.orders.CreateWithStockDecrement(ctx, order); err != nil {
		var insufficient *domain.InsufficientStockError
		switch {
		case errors.As(err, &insufficient):
			// Lost the race after the pre-check. Re-read for a fresh
			// available count; fall back to the guard's report.
			metrics.OrdersPlacedTotal.WithLabelValues("insufficient_stock").Inc()
			if current, ferr := s.products.FindByID(ctx, input.ProductID); ferr == nil {
				return nil, &domain.InsufficientStockError{Available: current.Stock}
			}
			return nil, insufficient
		case errors.Is(err, domain.ErrOrderConflict):
			metrics.OrdersPlacedTotal.WithLabelValues("conflict").Inc()
			s.logger.Warn().Str("product_id", input.ProductID).Msg("order transaction conflicted")
			return nil, err
		default:
			metrics.OrdersPlacedTotal.WithLabelValues("error").Inc()
			s.logger.Error().Err(err).Str("product_id", input.ProductID).Msg("order transaction failed")
			return nil, err
		}
	}

	metrics.OrdersPlacedTotal.WithLabelValues("completed").Inc()
	metrics.OrderPlacementDuration.Observe(time.Since(start).Seconds())

	if s.audit != nil {
		s.audit.Enqueue(domain.OrderEvent{
			OrderID:    order.ID,
			UserID:     order.UserID,
			ProductID:  order.ProductID,
			Quantity:   order.Quantity,
			TotalPrice: order.TotalPrice,
			CreatedAt:  order.CreatedAt,
		})
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("product_id", order.ProductID).
		Int64("quantity", order.Quantity).
		Float64("total_price", order.TotalPrice).
		Msg("order placed")

	return order, nil
}

// ListOrdersForUser returns the user's orders joined with each product's
// current snapshot. The snapshot price is read-time, not the frozen order
// total; a deleted product yields a nil snapshot.
func (s *OrderService) ListOrdersForUser(ctx context.Context, userID string) ([]*domain.OrderWithProduct, error) {
	return s.orders.ListByUser(ctx, userID)
}
