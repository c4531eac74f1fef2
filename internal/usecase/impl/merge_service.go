package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// cartMergeService implements the CartMergeUsecase interface. The whole merge
// runs in one transaction, so a failure leaves both carts untouched and the
// token replayable.
type cartMergeService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// CartMergeServiceParams holds dependencies for CartMergeService, injected by Fx.
type CartMergeServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Logger    *slog.Logger
}

// NewCartMergeService is the constructor for cartMergeService.
func NewCartMergeService(params CartMergeServiceParams) usecase.CartMergeUsecase {
	return &cartMergeService{
		txManager: params.TxManager,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartMergeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// MergeGuestCart folds the cart of the given guest token into the user's
// cart. Quantities of shared products accumulate; the guest cart and its
// session are deleted afterwards. Unknown and expired tokens are no-ops,
// which makes replays of an already merged token harmless; expired sessions
// are left for the cleanup job to collect.
func (srv *cartMergeService) MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error {
	if guestToken == "" {
		return nil
	}

	srv.log(ctx).Debug("Merging guest cart", slog.Any("userID", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		sessionRepo := repoFactory.GuestSessionRepo()
		cartRepo := repoFactory.CartRepo()

		session, err := sessionRepo.FindByToken(ctx, guestToken)
		if err != nil {
			if errors.Is(err, repository.ErrGuestSessionNotFound) {
				// Already merged, cleaned up, or never existed.
				return nil
			}

			return errors.Wrap(err, "failed to find guest session")
		}

		// An expired session is treated as absent, same as every other
		// consumer of the token.
		if session.IsExpired(time.Now()) {
			return nil
		}

		guestCart, err := cartRepo.FindByGuestSessionID(ctx, session.ID)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				// A session without a cart still gets retired.
				return srv.retireSession(ctx, sessionRepo, session.ID)
			}

			return errors.Wrap(err, "failed to find guest cart")
		}

		userCart, err := srv.findOrCreateUserCart(ctx, cartRepo, userID)
		if err != nil {
			return err
		}

		for _, line := range guestCart.Lines {
			if _, err := cartRepo.UpsertLine(ctx, userCart.ID, line.ProductID, line.Quantity); err != nil {
				return errors.Wrapf(err, "failed to merge cart line for product %s", line.ProductID)
			}
		}

		if err := cartRepo.DeleteCart(ctx, guestCart.ID); err != nil {
			return errors.Wrap(err, "failed to delete guest cart after merge")
		}

		return srv.retireSession(ctx, sessionRepo, session.ID)
	})
	if err != nil {
		srv.log(ctx).Warn("Guest cart merge failed", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to merge guest cart")
	}

	return nil
}

// findOrCreateUserCart reads the user's cart, creating it when absent. A
// create losing the race to a concurrent request re-reads the winner's cart.
func (srv *cartMergeService) findOrCreateUserCart(ctx context.Context, cartRepo repository.CartRepository, userID uuid.UUID) (*entity.Cart, error) {
	userCart, err := cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return userCart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to find user cart")
	}

	blank := &entity.Cart{UserID: &userID}
	if err := cartRepo.Create(ctx, blank); err != nil {
		if errors.Is(err, repository.ErrCartOwnerConflict) {
			winner, findErr := cartRepo.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, errors.Wrap(findErr, "failed to re-read user cart after create conflict")
			}

			return winner, nil
		}

		return nil, errors.Wrap(err, "failed to create user cart")
	}

	return blank, nil
}

func (srv *cartMergeService) retireSession(ctx context.Context, sessionRepo repository.GuestSessionRepository, sessionID uuid.UUID) error {
	if err := sessionRepo.Delete(ctx, sessionID); err != nil {
		return errors.Wrap(err, "failed to delete guest session after merge")
	}

	return nil
}
