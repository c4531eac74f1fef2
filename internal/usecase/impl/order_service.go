package impl

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager     repository.TransactionManager
	orderRepo     repository.OrderRepository
	qrcodeService service.QRCodeService
	mailer        service.Mailer
	publisher     service.EventPublisher
	logger        *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	OrderRepo     repository.OrderRepository
	QRCodeService service.QRCodeService
	Mailer        service.Mailer
	Publisher     service.EventPublisher
	Logger        *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:     params.TxManager,
		orderRepo:     params.OrderRepo,
		qrcodeService: params.QRCodeService,
		mailer:        params.Mailer,
		publisher:     params.Publisher,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CreateOrder validates the items against the catalog, snapshots prices, and
// persists the order atomically. A colliding order number is retried once
// with a fresh number; the confirmation email and OrderCreated event are
// sent best-effort after commit.
func (srv *orderService) CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error) {
	srv.log(ctx).Info("Creating order", slog.Int("items", len(input.Items)), slog.Bool("guest", input.UserID == nil))

	if err := validateOrderItems(input.Items); err != nil {
		return nil, err
	}

	var order *entity.Order

	// The whole build-and-insert runs per attempt: a unique violation aborts
	// the transaction, so the retry starts a new one.
	for attempt := 0; attempt < 2; attempt++ {
		created, err := srv.createOrderOnce(ctx, input)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNumberConflict) && attempt == 0 {
				srv.log(ctx).Warn("Order number collision, retrying with a fresh number")

				continue
			}
			if errors.Is(err, repository.ErrOrderNumberConflict) {
				return nil, errors.Wrap(domainerrors.ErrOrderNumberConflict, "failed to allocate order number")
			}

			return nil, err
		}

		order = created

		break
	}

	srv.log(ctx).Info("Order created", slog.String("orderNumber", order.OrderNumber), slog.Any("total", order.TotalAmount))

	srv.notifyOrderCreated(ctx, order)

	return order, nil
}

func validateOrderItems(items []usecase.OrderItemInput) error {
	if len(items) == 0 {
		return errors.Wrap(domainerrors.ErrOrderEmpty, "order must contain at least one item")
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return errors.Wrap(domainerrors.ErrQuantityInvalid, "item quantity must be positive")
		}
	}

	return nil
}

// createOrderOnce runs one full checkout attempt in a single transaction.
func (srv *orderService) createOrderOnce(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error) {
	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productIDs := make([]uuid.UUID, 0, len(input.Items))
		for _, item := range input.Items {
			productIDs = append(productIDs, item.ProductID)
		}

		// Every product must exist and be active; otherwise the whole order fails.
		products, err := repoFactory.ProductRepo().FindActiveByIDs(ctx, productIDs)
		if err != nil {
			return errors.Wrap(err, "failed to load order products")
		}

		items := make([]*entity.OrderItem, 0, len(input.Items))
		total := decimal.Zero

		for _, item := range input.Items {
			product, ok := products[item.ProductID]
			if !ok {
				return domainerrors.ErrProductNotFound.WrapMessage("product not available for checkout")
			}

			productID := product.ID
			subtotal := product.DiscountedPrice().Mul(decimal.NewFromInt(int64(item.Quantity)))

			items = append(items, &entity.OrderItem{
				ProductID:          &productID,
				ProductName:        product.Name,
				ProductSKU:         product.SKU,
				Price:              product.Price,
				DiscountPercentage: product.DiscountPercentage,
				Quantity:           item.Quantity,
				Subtotal:           subtotal,
			})
			total = total.Add(subtotal)
		}

		orderNumber, err := newOrderNumber(time.Now())
		if err != nil {
			return errors.Wrap(err, "failed to generate order number")
		}

		order = &entity.Order{
			OrderNumber:            orderNumber,
			UserID:                 input.UserID,
			Customer:               input.Customer,
			ShipToDifferentAddress: input.ShipToDifferentAddress,
			IsGuestOrder:           input.UserID == nil,
			TotalAmount:            total,
			PaymentStatus:          entity.PaymentStatusPending,
			OrderStatus:            entity.OrderStatusPending,
			Items:                  items,
		}

		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNumberConflict) {
			return nil, err
		}

		srv.log(ctx).Error("Failed to execute order creation transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order creation transaction")
	}

	return order, nil
}

// notifyOrderCreated sends the confirmation email and publishes the
// OrderCreated event. Both are best-effort: the order is already committed,
// so failures are logged and checkout still succeeds.
func (srv *orderService) notifyOrderCreated(ctx context.Context, order *entity.Order) {
	summary := buildOrderSummary(order)
	if err := srv.mailer.SendOrderConfirmation(ctx, summary); err != nil {
		srv.log(ctx).Warn("Failed to send order confirmation email",
			slog.String("orderNumber", order.OrderNumber),
			slog.Any("error", err),
		)
	}

	event := &service.OrderCreatedEvent{
		RequestID:     deliverycontext.GetRequestIDFromContext(ctx),
		OrderNumber:   order.OrderNumber,
		CustomerEmail: order.Customer.Email,
		ItemCount:     len(order.Items),
		TotalAmount:   order.TotalAmount.StringFixed(2),
		IsGuestOrder:  order.IsGuestOrder,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	if order.UserID != nil {
		event.UserID = order.UserID.String()
	}

	if err := srv.publisher.PublishOrderCreated(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order created event",
			slog.String("orderNumber", order.OrderNumber),
			slog.Any("error", err),
		)
	}
}

// buildOrderSummary flattens an order into the mailer's summary value.
func buildOrderSummary(order *entity.Order) *service.OrderSummary {
	lines := make([]service.OrderSummaryLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, service.OrderSummaryLine{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal.StringFixed(2),
		})
	}

	return &service.OrderSummary{
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.Customer.FirstName + " " + order.Customer.LastName,
		CustomerEmail: order.Customer.Email,
		Lines:         lines,
		TotalAmount:   order.TotalAmount.StringFixed(2),
	}
}

// GetOrderByNumber retrieves an order with its items.
func (srv *orderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	// Single query operation - use direct repository instance
	order, err := srv.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		srv.log(ctx).Error("Failed to find order", slog.String("orderNumber", orderNumber), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find order")
	}

	return order, nil
}

// ListUserOrders retrieves the user's orders, newest first.
func (srv *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetOrderQRCode renders the pickup QR code PNG for an existing order.
func (srv *orderService) GetOrderQRCode(ctx context.Context, orderNumber string) ([]byte, error) {
	order, err := srv.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GenerateOrderQR(order.OrderNumber)
	if err != nil {
		srv.log(ctx).Error("Failed to generate order QR code", slog.String("orderNumber", orderNumber), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate order QR code")
	}

	return png, nil
}

// newOrderNumber formats ORD-YYYYMMDD-HHMMSS-NNNN with a random 4-digit
// suffix. Uniqueness is enforced by the storage layer; the caller retries
// once on a collision.
func newOrderNumber(now time.Time) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", errors.Wrap(err, "failed to read random suffix")
	}

	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102-150405"), suffix.Int64()), nil
}
