// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the mutable shopping cart of exactly one identity: either a
// registered user or a guest session, never both and never neither.
type Cart struct {
	ID             uuid.UUID  // The unique identifier of the cart.
	UserID         *uuid.UUID // Owning user; nil for guest carts.
	GuestSessionID *uuid.UUID // Owning guest session; nil for user carts.
	Lines          []*CartLine
	CreatedAt      time.Time // Timestamp of when the cart was created.
	UpdatedAt      time.Time // Timestamp of the last modification.
}

// OwnerType reports which kind of identity owns the cart.
func (c *Cart) OwnerType() CartOwnerType {
	if c.UserID != nil {
		return CartOwnerUser
	}

	return CartOwnerGuest
}

// CartLine is one product entry in a cart. A cart holds at most one line
// per product; quantity is always at least 1 (a line at quantity 0 is
// deleted, not stored).
type CartLine struct {
	ID        uuid.UUID // The unique identifier of the line.
	CartID    uuid.UUID // The cart this line belongs to.
	ProductID uuid.UUID // The referenced catalog product.
	Quantity  int       // Number of units, always >= 1.
	Product   *Product  // The resolved product, when loaded with the cart.
	CreatedAt time.Time // Timestamp of when the line was created.
	UpdatedAt time.Time // Timestamp of the last quantity change.
}

// CartTotals is a point-in-time quotation of a cart priced against the
// current catalog. It is never persisted; orders snapshot their own prices.
type CartTotals struct {
	ItemCount     int             // Number of distinct lines in the cart.
	TotalQuantity int             // Sum of quantities across all lines.
	Subtotal      decimal.Decimal // Sum of discounted unit price * quantity per line.
	Shipping      decimal.Decimal // Flat configured shipping surcharge.
	GrandTotal    decimal.Decimal // Subtotal plus shipping.
}
