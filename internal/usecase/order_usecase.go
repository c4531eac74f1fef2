package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderItemInput names one product and quantity being bought.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput defines the data required to place an order. Checkout is
// deliberately independent of the cart: the client sends the exact items to
// buy. UserID is nil for guest orders.
type CreateOrderInput struct {
	UserID                 *uuid.UUID
	Customer               entity.CustomerInfo
	ShipToDifferentAddress bool
	Items                  []OrderItemInput
}

// OrderUsecase defines the interface for checkout and order retrieval.
type OrderUsecase interface {
	// CreateOrder validates the items against the catalog, snapshots prices,
	// and persists the order atomically. Confirmation email and the
	// OrderCreated event are sent best-effort after commit.
	CreateOrder(ctx context.Context, input CreateOrderInput) (*entity.Order, error)

	// GetOrderByNumber retrieves an order with its items. The order number
	// acts as a bearer capability for guest orders.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)

	// ListUserOrders retrieves the authenticated user's orders, newest first.
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// GetOrderQRCode renders the pickup QR code PNG for an existing order.
	GetOrderQRCode(ctx context.Context, orderNumber string) ([]byte, error)
}
