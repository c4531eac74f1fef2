package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler holds dependencies for shopping cart handlers. The same
// handlers serve authenticated users and guests; the owner reference built
// from the request decides whose cart is touched.
type CartHandler struct {
	uc     usecase.CartUsecase
	logger *slog.Logger
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: logger,
	}
}

// ownerRef builds the cart owner reference for the request: the
// authenticated user when a valid access token was presented, otherwise the
// guest session named by the X-Guest-Token header.
func ownerRef(c echo.Context) usecase.CartOwnerRef {
	if userID, ok := currentUserID(c); ok {
		return usecase.CartOwnerRef{UserID: &userID}
	}

	return usecase.CartOwnerRef{GuestToken: guestToken(c)}
}

// respondCart writes a cart response, echoing a lazily minted guest session
// token in the X-Guest-Token header so the client can keep presenting it.
func respondCart(c echo.Context, output *usecase.CartOutput, message string) error {
	if output.GuestToken != "" {
		c.Response().Header().Set(HeaderXGuestToken, output.GuestToken)
	}

	return response.Success(c, http.StatusOK, output, message)
}

// GetCart returns the owner's cart with its current quotation.
func (h *CartHandler) GetCart(c echo.Context) error {
	output, err := h.uc.GetCart(c.Request().Context(), ownerRef(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return respondCart(c, output, "Cart retrieved successfully")
}

// AddItem puts a product into the cart, accumulating onto an existing line.
func (h *CartHandler) AddItem(c echo.Context) error {
	var input usecase.AddItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart item input")
	}

	output, err := h.uc.AddItem(c.Request().Context(), ownerRef(c), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return respondCart(c, output, "Item added to cart")
}

// SetItemQuantity overwrites the quantity of an existing cart line.
func (h *CartHandler) SetItemQuantity(c echo.Context) error {
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid quantity input")
	}

	output, err := h.uc.SetItemQuantity(c.Request().Context(), ownerRef(c), productID, input.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return respondCart(c, output, "Cart item updated")
}

// IncrementItem raises an existing line's quantity by one.
func (h *CartHandler) IncrementItem(c echo.Context) error {
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	output, err := h.uc.IncrementItem(c.Request().Context(), ownerRef(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return respondCart(c, output, "Cart item incremented")
}

// DecrementItem lowers an existing line's quantity by one, removing the
// line when it reaches zero.
func (h *CartHandler) DecrementItem(c echo.Context) error {
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	output, err := h.uc.DecrementItem(c.Request().Context(), ownerRef(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	message := "Cart item decremented"
	if output.RemovedLine {
		message = "Cart item removed"
	}

	if output.Cart.GuestToken != "" {
		c.Response().Header().Set(HeaderXGuestToken, output.Cart.GuestToken)
	}

	return response.Success(c, http.StatusOK, output, message)
}

// RemoveItem deletes a product's line from the cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID")
	}

	output, err := h.uc.RemoveItem(c.Request().Context(), ownerRef(c), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return respondCart(c, output, "Item removed from cart")
}

// ClearCart empties the cart and reports how many lines were removed.
func (h *CartHandler) ClearCart(c echo.Context) error {
	removed, err := h.uc.ClearCart(c.Request().Context(), ownerRef(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"removed_lines": removed}, "Cart cleared")
}

// DeleteCart removes the cart itself, not just its lines.
func (h *CartHandler) DeleteCart(c echo.Context) error {
	if err := h.uc.DeleteCart(c.Request().Context(), ownerRef(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Cart deleted"}, "Cart deleted")
}
