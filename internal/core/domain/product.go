package domain

import "time"

// Product is a purchasable item. Stock never goes negative at any committed
// state; the decrement is guarded inside the order transaction, not merely
// checked before it.
type Product struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Stock       int64      `json:"stock"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ProductUpdate carries the optional fields of a partial product update.
// Nil means "leave unchanged".
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int64
}
