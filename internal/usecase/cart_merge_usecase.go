package usecase

import (
	"context"

	"github.com/google/uuid"
)

// CartMergeUsecase reconciles a guest cart into a user cart at login.
// Quantities of shared products accumulate; the guest cart and its session
// are deleted afterwards, so replaying the same token is a no-op.
type CartMergeUsecase interface {
	// MergeGuestCart folds the cart of the given guest token into the
	// user's cart. An unknown or expired token, or a guest without a cart,
	// is not an error: there is simply nothing to merge.
	MergeGuestCart(ctx context.Context, guestToken string, userID uuid.UUID) error
}
