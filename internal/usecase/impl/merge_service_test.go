package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMergeTestService(factory *fakeRepoFactory) usecase.CartMergeUsecase {
	return NewCartMergeService(CartMergeServiceParams{
		TxManager: &fakeTxManager{factory: factory},
		Logger:    newDiscardLogger(),
	})
}

// seedGuestCart creates a session and a cart holding the given product quantities.
func seedGuestCart(t *testing.T, factory *fakeRepoFactory, token string, expiresAt time.Time, lines map[*entity.Product]int) *entity.GuestSession {
	t.Helper()

	ctx := context.Background()
	session := &entity.GuestSession{Token: token, ExpiresAt: expiresAt}
	require.NoError(t, factory.sessions.Create(ctx, session))

	cart := &entity.Cart{GuestSessionID: &session.ID}
	require.NoError(t, factory.carts.Create(ctx, cart))

	for product, quantity := range lines {
		_, err := factory.carts.UpsertLine(ctx, cart.ID, product.ID, quantity)
		require.NoError(t, err)
	}

	return session
}

func TestCartMergeService_MergesIntoExistingUserCart(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	ctx := context.Background()

	shared := seedProduct(t, factory, "sku-shared", "10.00", 0, true)
	guestOnly := seedProduct(t, factory, "sku-guest", "20.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")

	userCart := &entity.Cart{UserID: &user.ID}
	require.NoError(t, factory.carts.Create(ctx, userCart))
	_, err := factory.carts.UpsertLine(ctx, userCart.ID, shared.ID, 2)
	require.NoError(t, err)

	seedGuestCart(t, factory, "guest-token", time.Now().Add(time.Hour), map[*entity.Product]int{
		shared:    3,
		guestOnly: 1,
	})

	require.NoError(t, svc.MergeGuestCart(ctx, "guest-token", user.ID))

	merged, err := factory.carts.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, merged.Lines, 2)

	quantities := map[string]int{}
	for _, line := range merged.Lines {
		quantities[line.ProductID.String()] = line.Quantity
	}
	assert.Equal(t, 5, quantities[shared.ID.String()])
	assert.Equal(t, 1, quantities[guestOnly.ID.String()])

	// The guest cart and session are gone.
	_, err = factory.sessions.FindByToken(ctx, "guest-token")
	assert.Error(t, err)
}

func TestCartMergeService_CreatesUserCartWhenAbsent(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	ctx := context.Background()

	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")

	seedGuestCart(t, factory, "guest-token", time.Now().Add(time.Hour), map[*entity.Product]int{product: 4})

	require.NoError(t, svc.MergeGuestCart(ctx, "guest-token", user.ID))

	merged, err := factory.carts.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, merged.Lines, 1)
	assert.Equal(t, 4, merged.Lines[0].Quantity)
}

func TestCartMergeService_ExpiredSessionIsNoOp(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	ctx := context.Background()

	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")

	seedGuestCart(t, factory, "stale-token", time.Now().Add(-time.Hour), map[*entity.Product]int{product: 2})

	require.NoError(t, svc.MergeGuestCart(ctx, "stale-token", user.ID))

	// Nothing moved: the user never got a cart.
	_, err := factory.carts.FindByUserID(ctx, user.ID)
	assert.Error(t, err)

	// The expired session is left for the cleanup job, not retired here.
	stale, err := factory.sessions.FindByToken(ctx, "stale-token")
	require.NoError(t, err)
	assert.True(t, stale.IsExpired(time.Now()))
}

func TestCartMergeService_ReplayIsHarmless(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	ctx := context.Background()

	product := seedProduct(t, factory, "sku-1", "10.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")

	seedGuestCart(t, factory, "guest-token", time.Now().Add(time.Hour), map[*entity.Product]int{product: 2})

	require.NoError(t, svc.MergeGuestCart(ctx, "guest-token", user.ID))
	require.NoError(t, svc.MergeGuestCart(ctx, "guest-token", user.ID))

	merged, err := factory.carts.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, merged.Lines, 1)
	assert.Equal(t, 2, merged.Lines[0].Quantity)
}

func TestCartMergeService_EmptyTokenIsNoOp(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	user := seedUser(t, factory, "shopper@example.com")

	require.NoError(t, svc.MergeGuestCart(context.Background(), "", user.ID))

	_, err := factory.carts.FindByUserID(context.Background(), user.ID)
	assert.Error(t, err)
}

func TestCartMergeService_SessionWithoutCartIsRetired(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newMergeTestService(factory)
	ctx := context.Background()

	user := seedUser(t, factory, "shopper@example.com")
	session := &entity.GuestSession{Token: "cartless-token", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, factory.sessions.Create(ctx, session))

	require.NoError(t, svc.MergeGuestCart(ctx, "cartless-token", user.ID))

	_, err := factory.sessions.FindByToken(ctx, "cartless-token")
	assert.Error(t, err)
}
