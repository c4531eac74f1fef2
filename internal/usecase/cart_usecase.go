package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CartOwnerRef identifies whose cart an operation targets: a registered user
// (UserID set) or a guest session (GuestToken set). For guest mutations an
// empty token is allowed; a session is created lazily and returned in the
// output so the client can keep presenting it.
type CartOwnerRef struct {
	UserID     *uuid.UUID
	GuestToken string
}

// IsGuest reports whether the reference targets a guest session cart.
func (r CartOwnerRef) IsGuest() bool {
	return r.UserID == nil
}

// AddItemInput defines the data required to put a product into a cart.
// A zero Quantity defaults to 1.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CartOutput returns a cart together with its current quotation.
// GuestToken is set only when the operation lazily created a guest session.
type CartOutput struct {
	Cart       *entity.Cart
	Totals     *entity.CartTotals
	GuestToken string
}

// DecrementOutput reports the result of a decrement: the updated cart and
// whether the line hit zero and was removed.
type DecrementOutput struct {
	Cart        *CartOutput
	RemovedLine bool
}

// CartUsecase defines the interface for shopping cart business operations.
// The same operations back both the authenticated /cart routes and the
// guest /guest/cart routes; the owner reference decides which cart is touched.
type CartUsecase interface {
	// GetCart returns the owner's cart with totals. An owner without a cart
	// gets an empty quotation, not an error.
	GetCart(ctx context.Context, owner CartOwnerRef) (*CartOutput, error)

	// AddItem adds quantity units of a product, accumulating onto an
	// existing line of the same product.
	AddItem(ctx context.Context, owner CartOwnerRef, input AddItemInput) (*CartOutput, error)

	// SetItemQuantity overwrites the quantity of an existing line.
	SetItemQuantity(ctx context.Context, owner CartOwnerRef, productID uuid.UUID, quantity int) (*CartOutput, error)

	// IncrementItem raises the quantity of an existing line by one.
	IncrementItem(ctx context.Context, owner CartOwnerRef, productID uuid.UUID) (*CartOutput, error)

	// DecrementItem lowers the quantity of an existing line by one,
	// removing the line when it reaches zero.
	DecrementItem(ctx context.Context, owner CartOwnerRef, productID uuid.UUID) (*DecrementOutput, error)

	// RemoveItem deletes a product's line from the cart.
	RemoveItem(ctx context.Context, owner CartOwnerRef, productID uuid.UUID) (*CartOutput, error)

	// ClearCart empties the cart and reports how many lines were removed.
	ClearCart(ctx context.Context, owner CartOwnerRef) (int, error)

	// DeleteCart removes the owner's cart row entirely, lines included.
	// An owner without a cart deletes nothing.
	DeleteCart(ctx context.Context, owner CartOwnerRef) error
}
