package impl

import (
	"context"
	"regexp"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/infra/qrcode"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderTestEnv struct {
	factory   *fakeRepoFactory
	mailer    *fakeMailer
	publisher *fakeEventPublisher
	svc       usecase.OrderUsecase
}

func newOrderTestEnv() *orderTestEnv {
	factory := newFakeRepoFactory()
	mailer := &fakeMailer{}
	publisher := &fakeEventPublisher{}

	svc := NewOrderService(OrderServiceParams{
		TxManager:     &fakeTxManager{factory: factory},
		OrderRepo:     factory.orders,
		QRCodeService: qrcode.NewQRCodeService(256, "M"),
		Mailer:        mailer,
		Publisher:     publisher,
		Logger:        newDiscardLogger(),
	})

	return &orderTestEnv{factory: factory, mailer: mailer, publisher: publisher, svc: svc}
}

func testCustomer() entity.CustomerInfo {
	return entity.CustomerInfo{
		FirstName: "Mei",
		LastName:  "Lin",
		Email:     "mei@example.com",
		Mobile:    "0912345678",
		Address:   "1 Market St",
		City:      "Taipei",
		Country:   "TW",
		Zipcode:   "100",
	}
}

func TestOrderService_CreateOrder_SnapshotsCatalogPrices(t *testing.T) {
	env := newOrderTestEnv()
	discounted := seedProduct(t, env.factory, "sku-1", "100.00", 25, true)
	plain := seedProduct(t, env.factory, "sku-2", "40.00", 0, true)

	order, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items: []usecase.OrderItemInput{
			{ProductID: discounted.ID, Quantity: 2},
			{ProductID: plain.ID, Quantity: 1},
		},
	})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{4}$`), order.OrderNumber)
	assert.True(t, order.IsGuestOrder)
	assert.Equal(t, entity.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, entity.OrderStatusPending, order.OrderStatus)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "sku-1", order.Items[0].ProductSKU)
	assert.Equal(t, "150.00", order.Items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "40.00", order.Items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "190.00", order.TotalAmount.StringFixed(2))

	// The item snapshot carries its own copy of the price and discount.
	assert.Equal(t, 25, order.Items[0].DiscountPercentage)
	assert.Equal(t, "100.00", order.Items[0].Price.StringFixed(2))
}

func TestOrderService_CreateOrder_UserOrder(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	user := seedUser(t, env.factory, "mei@example.com")

	order, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		UserID:   &user.ID,
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.False(t, order.IsGuestOrder)
	require.NotNil(t, order.UserID)
	assert.Equal(t, user.ID, *order.UserID)

	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, user.ID.String(), env.publisher.events[0].UserID)
}

func TestOrderService_CreateOrder_EmptyItems(t *testing.T) {
	env := newOrderTestEnv()

	_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{Customer: testCustomer()})

	assert.ErrorIs(t, err, domainerrors.ErrOrderEmpty)
}

func TestOrderService_CreateOrder_NonPositiveQuantity(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)

	_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 0}},
	})

	assert.ErrorIs(t, err, domainerrors.ErrQuantityInvalid)
}

func TestOrderService_CreateOrder_InactiveProductFailsWholeOrder(t *testing.T) {
	env := newOrderTestEnv()
	active := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	inactive := seedProduct(t, env.factory, "sku-2", "20.00", 0, false)

	_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items: []usecase.OrderItemInput{
			{ProductID: active.ID, Quantity: 1},
			{ProductID: inactive.ID, Quantity: 1},
		},
	})

	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
	assert.Empty(t, env.factory.orders.orders)
	assert.Empty(t, env.mailer.orderSummaries)
	assert.Empty(t, env.publisher.events)
}

func TestOrderService_CreateOrder_RetriesNumberCollisionOnce(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	env.factory.orders.failCreates = 1

	order, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Len(t, env.factory.orders.orders, 1)
}

func TestOrderService_CreateOrder_SecondCollisionFails(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	env.factory.orders.failCreates = 2

	_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	assert.ErrorIs(t, err, domainerrors.ErrOrderNumberConflict)
	assert.Empty(t, env.factory.orders.orders)
}

func TestOrderService_CreateOrder_SendsConfirmationAndEvent(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)

	order, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	require.Len(t, env.mailer.orderSummaries, 1)
	summary := env.mailer.orderSummaries[0]
	assert.Equal(t, order.OrderNumber, summary.OrderNumber)
	assert.Equal(t, "Mei Lin", summary.CustomerName)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, "30.00", summary.Lines[0].Subtotal)

	require.Len(t, env.publisher.events, 1)
	event := env.publisher.events[0]
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	assert.Equal(t, "mei@example.com", event.CustomerEmail)
	assert.Equal(t, "30.00", event.TotalAmount)
	assert.True(t, event.IsGuestOrder)
	assert.Empty(t, event.UserID)
}

func TestOrderService_CreateOrder_NotificationFailuresDoNotFailCheckout(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	env.mailer.err = assert.AnError
	env.publisher.err = assert.AnError

	order, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderNumber)
}

func TestOrderService_GetOrderByNumber(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)

	created, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	order, err := env.svc.GetOrderByNumber(context.Background(), created.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, order.ID)
	require.Len(t, order.Items, 1)

	_, err = env.svc.GetOrderByNumber(context.Background(), "ORD-00000000-000000-0000")
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}

func TestOrderService_ListUserOrders(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)
	user := seedUser(t, env.factory, "mei@example.com")

	for i := 0; i < 2; i++ {
		_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
			UserID:   &user.ID,
			Customer: testCustomer(),
			Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}
	_, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := env.svc.ListUserOrders(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = env.svc.ListUserOrders(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_GetOrderQRCode(t *testing.T) {
	env := newOrderTestEnv()
	product := seedProduct(t, env.factory, "sku-1", "10.00", 0, true)

	created, err := env.svc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		Customer: testCustomer(),
		Items:    []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	png, err := env.svc.GetOrderQRCode(context.Background(), created.OrderNumber)
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = env.svc.GetOrderQRCode(context.Background(), "ORD-00000000-000000-0000")
	assert.ErrorIs(t, err, domainerrors.ErrOrderNotFound)
}
