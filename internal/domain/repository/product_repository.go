// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProductNotFound is a domain-specific error returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ErrProductSKUConflict is returned when a product SKU collides with an existing one.
var ErrProductSKUConflict = errors.New("product sku already exists")

// ProductFilter narrows catalog listings. Zero values mean "no filter".
type ProductFilter struct {
	ProductType  entity.ProductType
	FeaturedOnly bool
}

// ProductRepository defines the standard operations for catalog persistence.
type ProductRepository interface {
	// FindByID retrieves a single product by its unique ID, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindActiveByID retrieves a product by ID, treating inactive products as absent.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// FindActiveByIDs retrieves the active products among the given IDs, keyed by ID.
	// Missing or inactive products are simply absent from the result.
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)

	// ListActive retrieves active products matching the filter, newest first.
	ListActive(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)

	// Create persists a new product.
	Create(ctx context.Context, product *entity.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, product *entity.Product) error
}
