package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager   repository.TransactionManager
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ReviewRepo  repository.ReviewRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:   params.TxManager,
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateReview records a rating for a product.
func (srv *reviewService) CreateReview(ctx context.Context, input usecase.CreateReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.Wrap(domainerrors.ErrRatingInvalid, "rating must be between 1 and 5")
	}

	review := &entity.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if _, err := repoFactory.ProductRepo().FindActiveByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if err := repoFactory.ReviewRepo().Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				return errors.Wrap(domainerrors.ErrReviewAlreadyExists, "product already reviewed by this user")
			}

			return errors.Wrap(err, "failed to create review")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to create review", slog.Any("productID", input.ProductID), slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Debug("Review created", slog.Any("reviewID", review.ID), slog.Int("rating", review.Rating))

	return review, nil
}

// GetProductReviews returns a product's reviews with their aggregate.
func (srv *reviewService) GetProductReviews(ctx context.Context, productID uuid.UUID) (*usecase.ProductReviewsOutput, error) {
	if _, err := srv.productRepo.FindActiveByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	reviews, err := srv.reviewRepo.FindByProductID(ctx, productID)
	if err != nil {
		srv.log(ctx).Error("Failed to list reviews", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list reviews")
	}

	summary, err := srv.reviewRepo.SummarizeByProductID(ctx, productID)
	if err != nil {
		srv.log(ctx).Error("Failed to summarize reviews", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to summarize reviews")
	}

	return &usecase.ProductReviewsOutput{
		Reviews: reviews,
		Summary: summary,
	}, nil
}
