package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for checkout and order retrieval handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateOrder places an order for the posted items. Authenticated requests
// attach the order to the user; anonymous requests produce guest orders.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var input usecase.CreateOrderInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}

	// The order owner comes from the access token, never from the body.
	input.UserID = nil
	if userID, ok := currentUserID(c); ok {
		input.UserID = &userID
	}

	order, err := h.uc.CreateOrder(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// GetOrderByNumber returns an order with its items. The order number acts
// as a bearer capability for guest orders.
func (h *OrderHandler) GetOrderByNumber(c echo.Context) error {
	order, err := h.uc.GetOrderByNumber(c.Request().Context(), c.Param("number"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// ListUserOrders returns the current user's orders, newest first.
func (h *OrderHandler) ListUserOrders(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	orders, err := h.uc.ListUserOrders(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// GetOrderQRCode renders the pickup QR code PNG for an order.
func (h *OrderHandler) GetOrderQRCode(c echo.Context) error {
	png, err := h.uc.GetOrderQRCode(c.Request().Context(), c.Param("number"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
