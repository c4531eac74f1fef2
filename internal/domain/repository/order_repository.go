// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberConflict is returned when an order number collides with an existing one.
	ErrOrderNumberConflict = errors.New("order number already exists")
)

// OrderRepository defines the standard operations for order persistence.
// Orders and their item snapshots are written once and never rewritten,
// apart from status transitions.
type OrderRepository interface {
	// Create persists an order header together with its item snapshots.
	// Returns ErrOrderNumberConflict when the order number is already taken.
	Create(ctx context.Context, order *entity.Order) error

	// FindByNumber retrieves an order with its items by order number.
	FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error)

	// FindByUserID retrieves all orders of a user, newest first, with items.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)
}
