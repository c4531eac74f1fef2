package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartTestService(t *testing.T, factory *fakeRepoFactory) usecase.CartUsecase {
	t.Helper()

	cfg := &config.Config{
		GuestSession: &config.GuestSessionConfig{TTL: time.Hour},
		Shipping:     &config.ShippingConfig{FlatFee: "5.00"},
	}

	svc, err := NewCartService(CartServiceParams{
		TxManager: &fakeTxManager{factory: factory},
		Config:    cfg,
		Logger:    newDiscardLogger(),
	})
	require.NoError(t, err)

	return svc
}

func seedProduct(t *testing.T, factory *fakeRepoFactory, sku, price string, discount int, active bool) *entity.Product {
	t.Helper()

	product := &entity.Product{
		Name:               "Product " + sku,
		SKU:                sku,
		ProductType:        entity.ProductTypeShoes,
		Price:              decimal.RequireFromString(price),
		DiscountPercentage: discount,
		IsActive:           active,
	}
	require.NoError(t, factory.products.Create(context.Background(), product))

	return product
}

func seedUser(t *testing.T, factory *fakeRepoFactory, email string) *entity.User {
	t.Helper()

	user := &entity.User{Name: "Shopper", Email: email}
	require.NoError(t, factory.users.Create(context.Background(), user))

	return user
}

func userOwner(user *entity.User) usecase.CartOwnerRef {
	return usecase.CartOwnerRef{UserID: &user.ID}
}

func TestCartService_AddItem_CreatesCartAndDefaultsQuantity(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")

	output, err := svc.AddItem(context.Background(), userOwner(user), usecase.AddItemInput{ProductID: product.ID})

	require.NoError(t, err)
	require.Len(t, output.Cart.Lines, 1)
	assert.Equal(t, 1, output.Cart.Lines[0].Quantity)
	assert.Empty(t, output.GuestToken)
	assert.Equal(t, 1, output.Totals.ItemCount)
}

func TestCartService_AddItem_AccumulatesExistingLine(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	output, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 3})

	require.NoError(t, err)
	require.Len(t, output.Cart.Lines, 1)
	assert.Equal(t, 5, output.Cart.Lines[0].Quantity)
	assert.Equal(t, 5, output.Totals.TotalQuantity)
}

func TestCartService_AddItem_RejectsNegativeQuantity(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	user := seedUser(t, factory, "shopper@example.com")

	_, err := svc.AddItem(context.Background(), userOwner(user), usecase.AddItemInput{ProductID: uuid.New(), Quantity: -1})

	assert.ErrorIs(t, err, domainerrors.ErrQuantityInvalid)
}

func TestCartService_AddItem_RejectsInactiveProduct(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, false)
	user := seedUser(t, factory, "shopper@example.com")

	_, err := svc.AddItem(context.Background(), userOwner(user), usecase.AddItemInput{ProductID: product.ID, Quantity: 1})

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestCartService_AddItem_GuestWithoutTokenMintsSession(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)

	output, err := svc.AddItem(context.Background(), usecase.CartOwnerRef{}, usecase.AddItemInput{ProductID: product.ID, Quantity: 2})

	require.NoError(t, err)
	require.NotEmpty(t, output.GuestToken)

	// The minted token addresses the same cart afterwards.
	followUp, err := svc.GetCart(context.Background(), usecase.CartOwnerRef{GuestToken: output.GuestToken})
	require.NoError(t, err)
	require.Len(t, followUp.Cart.Lines, 1)
	assert.Equal(t, 2, followUp.Cart.Lines[0].Quantity)
	assert.Empty(t, followUp.GuestToken)
}

func TestCartService_GuestReads_RequireToken(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)

	_, err := svc.GetCart(context.Background(), usecase.CartOwnerRef{})

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_UnknownGuestToken(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)

	_, err := svc.GetCart(context.Background(), usecase.CartOwnerRef{GuestToken: "no-such-token"})

	assert.ErrorIs(t, err, domainerrors.ErrGuestSessionNotFound)
}

func TestCartService_ExpiredGuestSession(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)

	session := &entity.GuestSession{Token: "stale-token", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, factory.sessions.Create(context.Background(), session))

	_, err := svc.GetCart(context.Background(), usecase.CartOwnerRef{GuestToken: "stale-token"})

	assert.ErrorIs(t, err, domainerrors.ErrGuestSessionExpired)
}

func TestCartService_GetCart_WithoutCartReturnsEmptyQuote(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	user := seedUser(t, factory, "shopper@example.com")

	output, err := svc.GetCart(context.Background(), userOwner(user))

	require.NoError(t, err)
	assert.Empty(t, output.Cart.Lines)
	assert.Equal(t, 0, output.Totals.ItemCount)
	assert.True(t, output.Totals.GrandTotal.IsZero())
}

func TestCartService_SetItemQuantity(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	output, err := svc.SetItemQuantity(context.Background(), owner, product.ID, 7)

	require.NoError(t, err)
	assert.Equal(t, 7, output.Cart.Lines[0].Quantity)

	_, err = svc.SetItemQuantity(context.Background(), owner, product.ID, 0)
	assert.ErrorIs(t, err, domainerrors.ErrQuantityInvalid)

	_, err = svc.SetItemQuantity(context.Background(), owner, uuid.New(), 3)
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)
}

func TestCartService_IncrementAndDecrement(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	output, err := svc.IncrementItem(context.Background(), owner, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, output.Cart.Lines[0].Quantity)

	decremented, err := svc.DecrementItem(context.Background(), owner, product.ID)
	require.NoError(t, err)
	assert.False(t, decremented.RemovedLine)
	assert.Equal(t, 1, decremented.Cart.Cart.Lines[0].Quantity)

	// Decrementing the last unit removes the line instead of leaving zero.
	removed, err := svc.DecrementItem(context.Background(), owner, product.ID)
	require.NoError(t, err)
	assert.True(t, removed.RemovedLine)
	assert.Empty(t, removed.Cart.Cart.Lines)
}

func TestCartService_RemoveItem(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 4})
	require.NoError(t, err)

	output, err := svc.RemoveItem(context.Background(), owner, product.ID)
	require.NoError(t, err)
	assert.Empty(t, output.Cart.Lines)

	_, err = svc.RemoveItem(context.Background(), owner, product.ID)
	assert.ErrorIs(t, err, domainerrors.ErrCartLineNotFound)
}

func TestCartService_ClearCart(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	first := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	second := seedProduct(t, factory, "sku-2", "40.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: first.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: second.ID, Quantity: 1})
	require.NoError(t, err)

	removed, err := svc.ClearCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// Clearing again, or clearing before any cart exists, removes nothing.
	removed, err = svc.ClearCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestCartService_DeleteCart(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	product := seedProduct(t, factory, "sku-1", "100.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCart(context.Background(), owner))

	// The cart row itself is gone, not just emptied.
	_, err = factory.carts.FindByUserID(context.Background(), user.ID)
	assert.Error(t, err)

	// Deleting again, or deleting before any cart exists, is a no-op.
	require.NoError(t, svc.DeleteCart(context.Background(), owner))

	output, err := svc.GetCart(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, output.Cart.Lines)
	assert.Equal(t, 0, output.Totals.ItemCount)
}

func TestCartService_RejectsOverlongGuestToken(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)

	owner := usecase.CartOwnerRef{GuestToken: strings.Repeat("x", 101)}

	_, err := svc.GetCart(context.Background(), owner)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCartService_TotalsApplyDiscountAndShipping(t *testing.T) {
	factory := newFakeRepoFactory()
	svc := newCartTestService(t, factory)
	discounted := seedProduct(t, factory, "sku-1", "100.00", 25, true)
	plain := seedProduct(t, factory, "sku-2", "40.00", 0, true)
	user := seedUser(t, factory, "shopper@example.com")
	owner := userOwner(user)

	_, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: discounted.ID, Quantity: 2})
	require.NoError(t, err)

	output, err := svc.AddItem(context.Background(), owner, usecase.AddItemInput{ProductID: plain.ID, Quantity: 1})
	require.NoError(t, err)

	// 2 x 75.00 + 1 x 40.00 = 190.00, plus the 5.00 flat shipping fee.
	assert.Equal(t, "190.00", output.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "5.00", output.Totals.Shipping.StringFixed(2))
	assert.Equal(t, "195.00", output.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, 2, output.Totals.ItemCount)
	assert.Equal(t, 3, output.Totals.TotalQuantity)
}
