package domain

import "time"

// OrderStatus is the lifecycle state of an order. There are no partial or
// cancelled states in this design.
type OrderStatus string

const StatusCompleted OrderStatus = "completed"

// Order records a purchase. TotalPrice is the unit price at placement time
// multiplied by quantity and is frozen: later product price changes never
// alter historical orders. ProductID and UserID are plain references with no
// cascading delete; an order may outlive the product or user it points at.
type Order struct {
	ID         string      `json:"_id"`
	UserID     string      `json:"userId"`
	ProductID  string      `json:"productId"`
	Quantity   int64       `json:"quantity"`
	TotalPrice float64     `json:"totalPrice"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// ProductSnapshot is the read-time view of a product joined onto an order:
// identifier, name and the product's current price. Nil when the product has
// been deleted since the order was placed.
type ProductSnapshot struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderWithProduct is an order enriched with its product snapshot.
type OrderWithProduct struct {
	Order
	Product *ProductSnapshot `json:"product"`
}

// OrderEvent is the audit-trail record emitted after a successful placement.
type OrderEvent struct {
	OrderID    string
	UserID     string
	ProductID  string
	Quantity   int64
	TotalPrice float64
	CreatedAt  time.Time
}
