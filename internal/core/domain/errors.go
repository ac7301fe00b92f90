package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidRole        = errors.New("role must be either 'admin' or 'user'")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already exists")
	ErrProductNotFound    = errors.New("product not found")
	ErrOrderConflict      = errors.New("order conflicts with a concurrent update, retry")
)

// InsufficientStockError reports a placement rejected because the product
// cannot cover the requested quantity. Available is the stock observed at
// rejection time.
type InsufficientStockError struct {
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %d available", e.Available)
}
