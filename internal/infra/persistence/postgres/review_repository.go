// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review. The composite unique index on
// (product_id, user_id) turns a second submission into a conflict.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid product or user reference")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrRatingInvalid
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	// Update the entity with generated values
	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByProductID retrieves all reviews of a product, newest first.
func (repo *reviewRepository) FindByProductID(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by product")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// SummarizeByProductID aggregates review count and average rating for a product.
func (repo *reviewRepository) SummarizeByProductID(ctx context.Context, productID uuid.UUID) (*entity.ReviewSummary, error) {
	var row struct {
		ReviewCount   int
		AverageRating float64
	}

	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COUNT(*) AS review_count, COALESCE(AVG(rating), 0) AS average_rating").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return nil, errors.Wrap(err, "failed to summarize reviews by product")
	}

	return &entity.ReviewSummary{
		ProductID:     productID,
		ReviewCount:   row.ReviewCount,
		AverageRating: row.AverageRating,
	}, nil
}

// --- Mapper Functions ---

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:        data.ID,
		ProductID: data.ProductID,
		UserID:    data.UserID,
		Rating:    data.Rating,
		Comment:   data.Comment,
	}
}
