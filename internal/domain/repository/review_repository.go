// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for review persistence.
var (
	// ErrReviewNotFound is returned when a review is not found.
	ErrReviewNotFound = errors.New("review not found")
	// ErrDuplicateReview is returned when a user reviews the same product twice.
	ErrDuplicateReview = errors.New("user already reviewed this product")
)

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrDuplicateReview when the
	// (product, user) pair already has one.
	Create(ctx context.Context, review *entity.Review) error

	// FindByProductID retrieves all reviews of a product, newest first.
	FindByProductID(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error)

	// SummarizeByProductID aggregates review count and average rating for a product.
	SummarizeByProductID(ctx context.Context, productID uuid.UUID) (*entity.ReviewSummary, error)
}
