package handler

import "github.com/shopstack/commerce-api/internal/core/domain"

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// --- Users ---

type createUserRequest struct {
	Username string `json:"username"  validate:"required,min=5"`
	Password string `json:"password"  validate:"required,min=5"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role"      validate:"required,oneof=admin user"`
}

type updateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=5"`
	Password *string `json:"password"  validate:"omitempty,min=5"`
	FullName *string `json:"full_name" validate:"omitempty"`
	Role     *string `json:"role"      validate:"omitempty,oneof=admin user"`
}

type createUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type listUsersResponse struct {
	Message string         `json:"message"`
	Users   []*domain.User `json:"users"`
}

// --- Products ---

// Price and Stock are pointers so zero values pass "required".
type createProductRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	Stock       *int64   `json:"stock"       validate:"required,gte=0"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int64   `json:"stock" validate:"omitempty,gte=0"`
}

type createProductResponse struct {
	Message   string `json:"message"`
	ProductID string `json:"productId"`
}

type listProductsResponse struct {
	Message  string            `json:"message"`
	Products []*domain.Product `json:"products"`
}

// --- Orders ---

type createOrderRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int64  `json:"quantity"  validate:"required,min=1"`
}

type createOrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// insufficientStockResponse reports the available quantity alongside the
// rejection so the caller can adjust without another round trip.
type insufficientStockResponse struct {
	Error          string `json:"error"`
	AvailableStock int64  `json:"availableStock"`
}

type listOrdersResponse struct {
	Message string                     `json:"message"`
	Orders  []*domain.OrderWithProduct `json:"orders"`
}

// messageResponse is the envelope for mutations with no payload.
type messageResponse struct {
	Message string `json:"message"`
}
