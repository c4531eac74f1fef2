package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ListProductsInput narrows the public catalog listing. Zero values list everything.
type ListProductsInput struct {
	ProductType  string
	FeaturedOnly bool
}

// CreateProductInput defines the data required to add a catalog product.
// Price is a decimal string, e.g. "59.90".
type CreateProductInput struct {
	Name               string
	SKU                string
	Description        string
	Brand              string
	ProductType        string
	Price              string
	DiscountPercentage int
	IsFeatured         bool
	IsActive           bool
}

// UpdateProductInput defines the data required to rewrite a catalog product.
// All fields are applied; callers send the full desired state.
type UpdateProductInput struct {
	ID                 uuid.UUID
	Name               string
	SKU                string
	Description        string
	Brand              string
	ProductType        string
	Price              string
	DiscountPercentage int
	IsFeatured         bool
	IsActive           bool
}

// UploadProductImageInput carries the image stream for a product.
type UploadProductImageInput struct {
	ProductID   uuid.UUID
	ContentType string
	Body        io.Reader
}

// ProductUsecase defines the interface for catalog business operations.
type ProductUsecase interface {
	// ListProducts returns active products matching the filter, newest first.
	ListProducts(ctx context.Context, input ListProductsInput) ([]*entity.Product, error)

	// GetProduct returns a single active product by ID.
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)

	// CreateProduct adds a product to the catalog (merchant only).
	CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error)

	// UpdateProduct rewrites an existing product (merchant only).
	UpdateProduct(ctx context.Context, input UpdateProductInput) (*entity.Product, error)

	// UploadProductImage stores the product image and records its key.
	// Returns the blob key the image was stored under.
	UploadProductImage(ctx context.Context, input UploadProductImageInput) (string, error)
}
