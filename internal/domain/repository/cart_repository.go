// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for cart persistence.
var (
	// ErrCartNotFound is returned when a cart is not found.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartLineNotFound is returned when a cart line is not found.
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrCartOwnerConflict is returned when the owner identity already has a cart.
	ErrCartOwnerConflict = errors.New("owner already has a cart")
)

// CartRepository defines the standard operations for cart persistence.
// A cart is owned by exactly one identity (user XOR guest session); the
// storage layer enforces at most one cart per identity and at most one
// line per (cart, product) pair.
type CartRepository interface {
	// FindByUserID retrieves the cart of a registered user, with lines and products.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error)

	// FindByGuestSessionID retrieves the cart of a guest session, with lines and products.
	FindByGuestSessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Cart, error)

	// Create persists a new empty cart for the given owner.
	// Returns ErrCartOwnerConflict when the identity already has a cart;
	// callers racing on creation re-read the winner's cart.
	Create(ctx context.Context, cart *entity.Cart) error

	// UpsertLine adds quantity units of a product to the cart as a single
	// atomic operation: a new line is inserted, or the quantity of the
	// existing (cart, product) line is incremented. Reports whether a new
	// line was created.
	UpsertLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (created bool, err error)

	// FindLine retrieves the line of a specific product in a cart.
	FindLine(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartLine, error)

	// SetLineQuantity overwrites the quantity of an existing line.
	// Returns ErrCartLineNotFound when the product is not in the cart.
	SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error

	// DeleteLine removes the line of a specific product from a cart.
	// Returns ErrCartLineNotFound when the product is not in the cart.
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID) error

	// DeleteLines removes every line from a cart and returns how many were removed.
	DeleteLines(ctx context.Context, cartID uuid.UUID) (int, error)

	// DeleteCart removes a cart together with its lines.
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}
