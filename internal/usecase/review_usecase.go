package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to review a product.
type CreateReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
}

// ProductReviewsOutput returns a product's reviews with their aggregate.
type ProductReviewsOutput struct {
	Reviews []*entity.Review
	Summary *entity.ReviewSummary
}

// ReviewUsecase defines the interface for product review operations.
type ReviewUsecase interface {
	// CreateReview records a rating for a product. Each user may review a
	// product once; a second submission is a conflict.
	CreateReview(ctx context.Context, input CreateReviewInput) (*entity.Review, error)

	// GetProductReviews returns all reviews of a product, newest first,
	// with the review count and average rating.
	GetProductReviews(ctx context.Context, productID uuid.UUID) (*ProductReviewsOutput, error)
}
