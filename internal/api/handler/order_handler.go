package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopstack/commerce-api/internal/api/middleware"
	"github.com/shopstack/commerce-api/internal/core/domain"
	"github.com/shopstack/commerce-api/internal/core/ports"
)

// OrderHandler handles order placement and the caller's order listing.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Create places an order for the authenticated user.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  createOrderResponse
// @Failure      400   {object}  insufficientStockResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}

	order, err := h.orders.PlaceOrder(c.Request().Context(), ports.PlaceOrderInput{
		UserID:    identity.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			return c.JSON(http.StatusBadRequest, insufficientStockResponse{
				Error:          "insufficient stock",
				AvailableStock: insufficient.Available,
			})
		}
		return err
	}

	return c.JSON(http.StatusCreated, createOrderResponse{
		Message: "Order created successfully",
		Order:   order,
	})
}

// MyOrders lists the authenticated user's orders, each joined with the
// product's current snapshot.
//
// @Summary      List own orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /orders/my-orders [get]
func (h *OrderHandler) MyOrders(c echo.Context) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}

	orders, err := h.orders.ListOrdersForUser(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listOrdersResponse{
		Message: "Orders found",
		Orders:  orders,
	})
}
