package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs mirroring the transactional contract of the Mongo repo
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	nextID   int
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) addProduct(name string, price float64, stock int64) *domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := &domain.Product{
		ID:    fmt.Sprintf("product-%d", r.nextID),
		Name:  name,
		Price: price,
		Stock: stock,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (string, error) {
	created := r.addProduct(p.Name, p.Price, p.Stock)
	return created.ID, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProductRepo) Update(_ context.Context, id string, update domain.ProductUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.Stock != nil {
		p.Stock = *update.Stock
	}
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// stubOrderRepo enforces the guarded decrement exactly like the Mongo
// transaction: no order persists unless the decrement succeeds, the guard is
// evaluated atomically with the decrement, and a guard failure reports no
// available count (the service re-reads for that).
type stubOrderRepo struct {
	mu       sync.Mutex
	products *stubProductRepo
	orders   []*domain.Order
	nextErr  error // returned once by the next CreateWithStockDecrement
}

func newStubOrderRepo(products *stubProductRepo) *stubOrderRepo {
	return &stubOrderRepo{products: products}
}

func (r *stubOrderRepo) CreateWithStockDecrement(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nextErr != nil {
		err := r.nextErr
		r.nextErr = nil
		return err
	}

	r.products.mu.Lock()
	p, ok := r.products.products[order.ProductID]
	if !ok || p.Stock < order.Quantity {
		r.products.mu.Unlock()
		return &domain.InsufficientStockError{}
	}
	p.Stock -= order.Quantity
	r.products.mu.Unlock()

	clone := *order
	clone.ID = fmt.Sprintf("order-%d", len(r.orders)+1)
	r.orders = append(r.orders, &clone)
	order.ID = clone.ID
	return nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.OrderWithProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.OrderWithProduct, 0)
	for _, o := range r.orders {
		if o.UserID != userID {
			continue
		}
		enriched := &domain.OrderWithProduct{Order: *o}
		if p, err := r.products.FindByID(context.Background(), o.ProductID); err == nil {
			enriched.Product = &domain.ProductSnapshot{ID: p.ID, Name: p.Name, Price: p.Price}
		}
		out = append(out, enriched)
	}
	return out, nil
}

type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (s *stubAuditSink) Enqueue(event domain.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func newOrderFixture() (*stubProductRepo, *stubOrderRepo, *stubAuditSink, *OrderService) {
	products := newStubProductRepo()
	orders := newStubOrderRepo(products)
	audit := &stubAuditSink{}
	svc := NewOrderService(orders, products, audit, discardLogger)
	return products, orders, audit, svc
}

// ---------------------------------------------------------------------------
// PlaceOrder
// ---------------------------------------------------------------------------

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	products, orders, audit, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)

	order, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID:    "user-1",
		ProductID: widget.ID,
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.TotalPrice != 30.0 {
		t.Errorf("expected total 30.0, got %v", order.TotalPrice)
	}
	if order.Status != domain.StatusCompleted {
		t.Errorf("expected status completed, got %s", order.Status)
	}
	if products.products[widget.ID].Stock != 2 {
		t.Errorf("expected stock 2, got %d", products.products[widget.ID].Stock)
	}
	if len(orders.orders) != 1 {
		t.Errorf("expected 1 stored order, got %d", len(orders.orders))
	}
	if len(audit.events) != 1 || audit.events[0].OrderID != order.ID {
		t.Errorf("expected audit event for %s, got %+v", order.ID, audit.events)
	}
}

func TestOrderService_PlaceOrder_TotalPriceFrozen(t *testing.T) {
	products, _, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)

	order, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: widget.ID, Quantity: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Later price change must not touch the recorded total.
	newPrice := 99.0
	if err := products.Update(context.Background(), widget.ID, domain.ProductUpdate{Price: &newPrice}); err != nil {
		t.Fatalf("price update failed: %v", err)
	}

	listed, err := svc.ListOrdersForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if listed[0].TotalPrice != 20.0 {
		t.Errorf("frozen total changed: got %v", listed[0].TotalPrice)
	}
	if listed[0].Product.Price != 99.0 {
		t.Errorf("snapshot must carry current price, got %v", listed[0].Product.Price)
	}
	if order.TotalPrice != 20.0 {
		t.Errorf("order total changed: got %v", order.TotalPrice)
	}
}

func TestOrderService_PlaceOrder_NotIdempotent(t *testing.T) {
	products, _, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)

	input := ports.PlaceOrderInput{UserID: "user-1", ProductID: widget.ID, Quantity: 2}
	for i := 0; i < 2; i++ {
		if _, err := svc.PlaceOrder(context.Background(), input); err != nil {
			t.Fatalf("placement %d failed: %v", i+1, err)
		}
	}

	// Two identical calls are two purchases.
	if got := products.products[widget.ID].Stock; got != 1 {
		t.Errorf("expected stock 1 after two placements, got %d", got)
	}
}

func TestOrderService_PlaceOrder_InvalidQuantity(t *testing.T) {
	products, _, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)

	for _, q := range []int64{0, -1} {
		_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
			UserID: "user-1", ProductID: widget.ID, Quantity: q,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("quantity %d: expected ErrInvalidInput, got %v", q, err)
		}
	}
	if products.products[widget.ID].Stock != 5 {
		t.Error("stock must be untouched by rejected placements")
	}
}

func TestOrderService_PlaceOrder_ProductNotFound(t *testing.T) {
	_, _, _, svc := newOrderFixture()

	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: "missing", Quantity: 1,
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderService_PlaceOrder_InsufficientStockPreCheck(t *testing.T) {
	products, orders, audit, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 2)

	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: widget.ID, Quantity: 5,
	})

	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 2 {
		t.Errorf("expected available 2, got %d", insufficient.Available)
	}
	if products.products[widget.ID].Stock != 2 {
		t.Error("stock must be untouched")
	}
	if len(orders.orders) != 0 {
		t.Error("no order must persist")
	}
	if len(audit.events) != 0 {
		t.Error("no audit event must be emitted")
	}
}

// A drain between the pre-check and the transaction must still be reported
// with a fresh available count, not the stale pre-check read.
func TestOrderService_PlaceOrder_InsufficientStockInTransaction(t *testing.T) {
	products, orders, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)
	orders.nextErr = &domain.InsufficientStockError{}
	products.products[widget.ID].Stock = 1 // concurrent drain

	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: widget.ID, Quantity: 3,
	})

	var insufficient *domain.InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if insufficient.Available != 1 {
		t.Errorf("expected re-read available 1, got %d", insufficient.Available)
	}
}

func TestOrderService_PlaceOrder_ConflictSurfaced(t *testing.T) {
	products, orders, audit, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)
	orders.nextErr = domain.ErrOrderConflict

	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: widget.ID, Quantity: 1,
	})
	if !errors.Is(err, domain.ErrOrderConflict) {
		t.Fatalf("expected ErrOrderConflict, got %v", err)
	}
	if len(audit.events) != 0 {
		t.Error("no audit event on conflict")
	}
}

// Many buyers racing for limited stock: some placements win, the rest are
// rejected, wins plus remaining stock account for every unit, and stock never
// goes negative.
func TestOrderService_PlaceOrder_ConcurrentPlacements(t *testing.T) {
	products, orders, audit, svc := newOrderFixture()
	const initialStock = 5
	widget := products.addProduct("Widget", 10.0, initialStock)

	const attempts = 20
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
				UserID: "user-1", ProductID: widget.ID, Quantity: 1,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var insufficient *domain.InsufficientStockError
		if !errors.As(err, &insufficient) && !errors.Is(err, domain.ErrOrderConflict) {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
	}

	final := products.products[widget.ID].Stock
	if final < 0 {
		t.Fatalf("stock went negative: %d", final)
	}
	if successes != initialStock {
		t.Errorf("expected %d wins for %d units, got %d", initialStock, initialStock, successes)
	}
	if int64(successes)+final != initialStock {
		t.Errorf("units unaccounted for: %d wins, %d left", successes, final)
	}
	if len(orders.orders) != successes {
		t.Errorf("expected %d persisted orders, got %d", successes, len(orders.orders))
	}
	if len(audit.events) != successes {
		t.Errorf("expected %d audit events, got %d", successes, len(audit.events))
	}
}

// ---------------------------------------------------------------------------
// ListOrdersForUser
// ---------------------------------------------------------------------------

func TestOrderService_ListOrders_OwnOrdersOnly(t *testing.T) {
	products, _, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 10)

	for _, user := range []string{"user-1", "user-2", "user-1"} {
		if _, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
			UserID: user, ProductID: widget.ID, Quantity: 1,
		}); err != nil {
			t.Fatalf("placement failed: %v", err)
		}
	}

	listed, err := svc.ListOrdersForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(listed))
	}
}

func TestOrderService_ListOrders_DeletedProduct(t *testing.T) {
	products, _, _, svc := newOrderFixture()
	widget := products.addProduct("Widget", 10.0, 5)

	if _, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		UserID: "user-1", ProductID: widget.ID, Quantity: 1,
	}); err != nil {
		t.Fatalf("placement failed: %v", err)
	}
	if err := products.Delete(context.Background(), widget.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	listed, err := svc.ListOrdersForUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list must tolerate a deleted product: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected the order to survive, got %d", len(listed))
	}
	if listed[0].Product != nil {
		t.Error("expected nil product snapshot for deleted product")
	}
	if listed[0].TotalPrice != 10.0 {
		t.Error("frozen total must survive product deletion")
	}
}
