package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// cartService implements the CartUsecase interface. Every mutation runs in a
// single transaction that resolves the owner, touches the cart, and re-reads
// it for the returned quotation.
type cartService struct {
	txManager       repository.TransactionManager
	guestSessionTTL time.Duration
	shippingFee     decimal.Decimal
	logger          *slog.Logger
}

// CartServiceParams holds dependencies for CartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	Config    *config.Config
	Logger    *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) (usecase.CartUsecase, error) {
	ttl := defaultGuestSessionTTL
	if params.Config != nil && params.Config.GuestSession != nil && params.Config.GuestSession.TTL > 0 {
		ttl = params.Config.GuestSession.TTL
	}

	shippingFee := decimal.Zero
	if params.Config != nil && params.Config.Shipping != nil && params.Config.Shipping.FlatFee != "" {
		fee, err := decimal.NewFromString(params.Config.Shipping.FlatFee)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid shipping flat fee %q", params.Config.Shipping.FlatFee)
		}
		shippingFee = fee
	}

	return &cartService{
		txManager:       params.TxManager,
		guestSessionTTL: ttl,
		shippingFee:     shippingFee,
		logger:          params.Logger,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart returns the owner's cart with totals. An owner without a cart gets
// an empty quotation, not an error.
func (srv *cartService) GetCart(ctx context.Context, owner usecase.CartOwnerRef) (*usecase.CartOutput, error) {
	var output *usecase.CartOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, err := srv.findOwnerCart(ctx, repoFactory, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				output = srv.emptyCartOutput(owner)

				return nil
			}

			return err
		}

		output = &usecase.CartOutput{Cart: cart, Totals: srv.quoteTotals(cart)}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to get cart", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to get cart")
	}

	return output, nil
}

// AddItem adds quantity units of a product, accumulating onto an existing
// line of the same product. A zero quantity defaults to 1.
func (srv *cartService) AddItem(ctx context.Context, owner usecase.CartOwnerRef, input usecase.AddItemInput) (*usecase.CartOutput, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, errors.Wrap(domainerrors.ErrQuantityInvalid, "quantity must be positive")
	}

	output, err := srv.mutateCart(ctx, owner, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		// The product must exist and be active at the time it enters the cart.
		if _, err := repoFactory.ProductRepo().FindActiveByID(ctx, input.ProductID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product not available")
			}

			return errors.Wrap(err, "failed to find product")
		}

		created, err := repoFactory.CartRepo().UpsertLine(ctx, cart.ID, input.ProductID, quantity)
		if err != nil {
			return errors.Wrap(err, "failed to upsert cart line")
		}

		srv.log(ctx).Debug("Added item to cart",
			slog.Any("cartID", cart.ID),
			slog.Any("productID", input.ProductID),
			slog.Int("quantity", quantity),
			slog.Bool("newLine", created),
		)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to add item to cart")
	}

	return output, nil
}

// SetItemQuantity overwrites the quantity of an existing line.
func (srv *cartService) SetItemQuantity(ctx context.Context, owner usecase.CartOwnerRef, productID uuid.UUID, quantity int) (*usecase.CartOutput, error) {
	if quantity <= 0 {
		return nil, errors.Wrap(domainerrors.ErrQuantityInvalid, "quantity must be positive")
	}

	output, err := srv.mutateCart(ctx, owner, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		if err := repoFactory.CartRepo().SetLineQuantity(ctx, cart.ID, productID, quantity); err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrCartLineNotFound, "product not in cart")
			}

			return errors.Wrap(err, "failed to set line quantity")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set item quantity")
	}

	return output, nil
}

// IncrementItem raises the quantity of an existing line by one.
func (srv *cartService) IncrementItem(ctx context.Context, owner usecase.CartOwnerRef, productID uuid.UUID) (*usecase.CartOutput, error) {
	output, err := srv.mutateCart(ctx, owner, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		cartRepo := repoFactory.CartRepo()

		line, err := cartRepo.FindLine(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrCartLineNotFound, "product not in cart")
			}

			return errors.Wrap(err, "failed to find cart line")
		}

		if err := cartRepo.SetLineQuantity(ctx, cart.ID, productID, line.Quantity+1); err != nil {
			return errors.Wrap(err, "failed to increment line quantity")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to increment item")
	}

	return output, nil
}

// DecrementItem lowers the quantity of an existing line by one, removing the
// line when it reaches zero.
func (srv *cartService) DecrementItem(ctx context.Context, owner usecase.CartOwnerRef, productID uuid.UUID) (*usecase.DecrementOutput, error) {
	removed := false

	output, err := srv.mutateCart(ctx, owner, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		cartRepo := repoFactory.CartRepo()

		line, err := cartRepo.FindLine(ctx, cart.ID, productID)
		if err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrCartLineNotFound, "product not in cart")
			}

			return errors.Wrap(err, "failed to find cart line")
		}

		// A line never stays at quantity zero; it is deleted instead.
		if line.Quantity <= 1 {
			removed = true

			if err := cartRepo.DeleteLine(ctx, cart.ID, productID); err != nil {
				return errors.Wrap(err, "failed to delete cart line")
			}

			return nil
		}

		if err := cartRepo.SetLineQuantity(ctx, cart.ID, productID, line.Quantity-1); err != nil {
			return errors.Wrap(err, "failed to decrement line quantity")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrement item")
	}

	return &usecase.DecrementOutput{Cart: output, RemovedLine: removed}, nil
}

// RemoveItem deletes a product's line from the cart.
func (srv *cartService) RemoveItem(ctx context.Context, owner usecase.CartOwnerRef, productID uuid.UUID) (*usecase.CartOutput, error) {
	output, err := srv.mutateCart(ctx, owner, func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error {
		if err := repoFactory.CartRepo().DeleteLine(ctx, cart.ID, productID); err != nil {
			if errors.Is(err, repository.ErrCartLineNotFound) {
				return errors.Wrap(domainerrors.ErrCartLineNotFound, "product not in cart")
			}

			return errors.Wrap(err, "failed to delete cart line")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to remove item")
	}

	return output, nil
}

// ClearCart empties the cart and reports how many lines were removed.
// An owner without a cart clears nothing.
func (srv *cartService) ClearCart(ctx context.Context, owner usecase.CartOwnerRef) (int, error) {
	removed := 0

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, err := srv.findOwnerCart(ctx, repoFactory, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return nil
			}

			return err
		}

		removed, err = repoFactory.CartRepo().DeleteLines(ctx, cart.ID)
		if err != nil {
			return errors.Wrap(err, "failed to delete cart lines")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to clear cart", slog.Any("error", err))

		return 0, errors.Wrap(err, "failed to clear cart")
	}

	srv.log(ctx).Debug("Cleared cart", slog.Int("removedLines", removed))

	return removed, nil
}

// DeleteCart removes the owner's cart row entirely, lines included.
// An owner without a cart deletes nothing.
func (srv *cartService) DeleteCart(ctx context.Context, owner usecase.CartOwnerRef) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, err := srv.findOwnerCart(ctx, repoFactory, owner)
		if err != nil {
			if errors.Is(err, repository.ErrCartNotFound) {
				return nil
			}

			return err
		}

		if err := repoFactory.CartRepo().DeleteCart(ctx, cart.ID); err != nil {
			return errors.Wrap(err, "failed to delete cart row")
		}

		srv.log(ctx).Debug("Deleted cart", slog.Any("cartID", cart.ID))

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to delete cart", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete cart")
	}

	return nil
}

// mutateCart runs a cart mutation in one transaction: resolve (or lazily
// create) the owner's cart, apply the mutation, and re-read the cart for
// the returned quotation.
func (srv *cartService) mutateCart(
	ctx context.Context,
	owner usecase.CartOwnerRef,
	mutate func(repoFactory repository.RepositoryFactory, cart *entity.Cart) error,
) (*usecase.CartOutput, error) {
	var output *usecase.CartOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cart, issuedToken, err := srv.ensureOwnerCart(ctx, repoFactory, owner)
		if err != nil {
			return err
		}

		if err := mutate(repoFactory, cart); err != nil {
			return err
		}

		reloaded, err := srv.reloadCart(ctx, repoFactory, cart)
		if err != nil {
			return err
		}

		output = &usecase.CartOutput{
			Cart:       reloaded,
			Totals:     srv.quoteTotals(reloaded),
			GuestToken: issuedToken,
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Cart mutation failed", slog.Any("error", err))

		return nil, err
	}

	return output, nil
}

// findOwnerCart resolves the owner's existing cart without creating anything.
func (srv *cartService) findOwnerCart(ctx context.Context, repoFactory repository.RepositoryFactory, owner usecase.CartOwnerRef) (*entity.Cart, error) {
	if !owner.IsGuest() {
		return repoFactory.CartRepo().FindByUserID(ctx, *owner.UserID)
	}

	session, err := srv.resolveGuestSession(ctx, repoFactory, owner.GuestToken)
	if err != nil {
		return nil, err
	}

	return repoFactory.CartRepo().FindByGuestSessionID(ctx, session.ID)
}

// ensureOwnerCart resolves the owner's cart, creating it when absent. For a
// guest without a token it also mints the session and reports the new token.
func (srv *cartService) ensureOwnerCart(ctx context.Context, repoFactory repository.RepositoryFactory, owner usecase.CartOwnerRef) (*entity.Cart, string, error) {
	if !owner.IsGuest() {
		cart, err := srv.findOrCreateCart(ctx, repoFactory, &entity.Cart{UserID: owner.UserID}, func() (*entity.Cart, error) {
			return repoFactory.CartRepo().FindByUserID(ctx, *owner.UserID)
		})

		return cart, "", err
	}

	issuedToken := ""
	token := owner.GuestToken

	var session *entity.GuestSession
	if token == "" {
		// Lazy session creation: a guest's first mutation mints the session.
		created, err := srv.createGuestSession(ctx, repoFactory)
		if err != nil {
			return nil, "", err
		}
		session = created
		issuedToken = created.Token
	} else {
		resolved, err := srv.resolveGuestSession(ctx, repoFactory, token)
		if err != nil {
			return nil, "", err
		}
		session = resolved
	}

	cart, err := srv.findOrCreateCart(ctx, repoFactory, &entity.Cart{GuestSessionID: &session.ID}, func() (*entity.Cart, error) {
		return repoFactory.CartRepo().FindByGuestSessionID(ctx, session.ID)
	})
	if err != nil {
		return nil, "", err
	}

	return cart, issuedToken, nil
}

// findOrCreateCart reads the owner's cart, creating it when absent. A create
// losing the race to a concurrent request re-reads the winner's cart.
func (srv *cartService) findOrCreateCart(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	blank *entity.Cart,
	find func() (*entity.Cart, error),
) (*entity.Cart, error) {
	cart, err := find()
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrCartNotFound) {
		return nil, errors.Wrap(err, "failed to find cart")
	}

	if err := repoFactory.CartRepo().Create(ctx, blank); err != nil {
		if errors.Is(err, repository.ErrCartOwnerConflict) {
			winner, findErr := find()
			if findErr != nil {
				return nil, errors.Wrap(findErr, "failed to re-read cart after create conflict")
			}

			return winner, nil
		}

		return nil, errors.Wrap(err, "failed to create cart")
	}

	return blank, nil
}

// resolveGuestSession maps a guest token onto its session, distinguishing
// unknown tokens from expired ones.
func (srv *cartService) resolveGuestSession(ctx context.Context, repoFactory repository.RepositoryFactory, token string) (*entity.GuestSession, error) {
	if token == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("guest token required")
	}
	if len(token) > maxGuestTokenLength {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("guest token too long")
	}

	session, err := repoFactory.GuestSessionRepo().FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrGuestSessionNotFound) {
			return nil, errors.Wrap(domainerrors.ErrGuestSessionNotFound, "unknown guest token")
		}

		return nil, errors.Wrap(err, "failed to find guest session")
	}

	if session.IsExpired(time.Now()) {
		return nil, errors.Wrap(domainerrors.ErrGuestSessionExpired, "guest session expired")
	}

	return session, nil
}

// createGuestSession mints a session inside the surrounding transaction.
func (srv *cartService) createGuestSession(ctx context.Context, repoFactory repository.RepositoryFactory) (*entity.GuestSession, error) {
	token, err := newGuestToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate guest token")
	}

	session := &entity.GuestSession{
		Token:     token,
		ExpiresAt: time.Now().Add(srv.guestSessionTTL),
	}

	if err := repoFactory.GuestSessionRepo().Create(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to create guest session")
	}

	return session, nil
}

// reloadCart re-reads the cart with lines and products after a mutation.
func (srv *cartService) reloadCart(ctx context.Context, repoFactory repository.RepositoryFactory, cart *entity.Cart) (*entity.Cart, error) {
	var reloaded *entity.Cart
	var err error

	if cart.UserID != nil {
		reloaded, err = repoFactory.CartRepo().FindByUserID(ctx, *cart.UserID)
	} else {
		reloaded, err = repoFactory.CartRepo().FindByGuestSessionID(ctx, *cart.GuestSessionID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload cart")
	}

	return reloaded, nil
}

// quoteTotals prices the cart against the current catalog. Shipping applies
// only to non-empty carts.
func (srv *cartService) quoteTotals(cart *entity.Cart) *entity.CartTotals {
	totals := &entity.CartTotals{
		Subtotal:   decimal.Zero,
		Shipping:   decimal.Zero,
		GrandTotal: decimal.Zero,
	}

	for _, line := range cart.Lines {
		totals.ItemCount++
		totals.TotalQuantity += line.Quantity

		if line.Product == nil {
			continue
		}

		lineTotal := line.Product.DiscountedPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
		totals.Subtotal = totals.Subtotal.Add(lineTotal)
	}

	if totals.ItemCount > 0 {
		totals.Shipping = srv.shippingFee
	}
	totals.GrandTotal = totals.Subtotal.Add(totals.Shipping)

	return totals
}

// emptyCartOutput is the quotation of an owner who has no cart yet.
func (srv *cartService) emptyCartOutput(owner usecase.CartOwnerRef) *usecase.CartOutput {
	return &usecase.CartOutput{
		Cart: &entity.Cart{UserID: owner.UserID},
		Totals: &entity.CartTotals{
			Subtotal:   decimal.Zero,
			Shipping:   decimal.Zero,
			GrandTotal: decimal.Zero,
		},
	}
}
