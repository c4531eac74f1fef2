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

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// Create persists an order header together with its item snapshots. GORM
// inserts the associated items in the same statement batch, and the caller's
// transaction makes the whole write atomic.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrOrderNumberConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user or product reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required order information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	// Update the entity with generated values
	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for i, itemM := range orderM.Items {
		order.Items[i].ID = itemM.ID
		order.Items[i].OrderID = itemM.OrderID
	}

	return nil
}

// FindByNumber retrieves an order with its items by order number.
func (repo *orderRepository) FindByNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by number")
	}

	return toOrderDomain(&orderM), nil
}

// FindByUserID retrieves all orders of a user, newest first, with items.
func (repo *orderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders by user")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	order := &entity.Order{
		ID:          data.ID,
		OrderNumber: data.OrderNumber,
		UserID:      data.UserID,
		Customer: entity.CustomerInfo{
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Email:     data.Email,
			Mobile:    data.Mobile,
			Address:   data.Address,
			City:      data.City,
			Country:   data.Country,
			Zipcode:   data.Zipcode,
		},
		ShipToDifferentAddress: data.ShipToDifferentAddress,
		IsGuestOrder:           data.IsGuestOrder,
		TotalAmount:            data.TotalAmount,
		PaymentStatus:          entity.PaymentStatus(data.PaymentStatus),
		OrderStatus:            entity.OrderStatus(data.OrderStatus),
		CreatedAt:              data.CreatedAt,
		UpdatedAt:              data.UpdatedAt,
	}

	order.Items = make([]*entity.OrderItem, 0, len(data.Items))
	for i := range data.Items {
		order.Items = append(order.Items, toOrderItemDomain(&data.Items[i]))
	}

	return order
}

// toOrderItemDomain converts a GORM OrderItemModel to a domain OrderItem entity.
func toOrderItemDomain(data *model.OrderItemModel) *entity.OrderItem {
	if data == nil {
		return nil
	}

	return &entity.OrderItem{
		ID:                 data.ID,
		OrderID:            data.OrderID,
		ProductID:          data.ProductID,
		ProductName:        data.ProductName,
		ProductSKU:         data.ProductSKU,
		Price:              data.Price,
		DiscountPercentage: data.DiscountPercentage,
		Quantity:           data.Quantity,
		Subtotal:           data.Subtotal,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	orderM := &model.OrderModel{
		ID:                     data.ID,
		OrderNumber:            data.OrderNumber,
		UserID:                 data.UserID,
		FirstName:              data.Customer.FirstName,
		LastName:               data.Customer.LastName,
		Email:                  data.Customer.Email,
		Mobile:                 data.Customer.Mobile,
		Address:                data.Customer.Address,
		City:                   data.Customer.City,
		Country:                data.Customer.Country,
		Zipcode:                data.Customer.Zipcode,
		ShipToDifferentAddress: data.ShipToDifferentAddress,
		IsGuestOrder:           data.IsGuestOrder,
		TotalAmount:            data.TotalAmount,
		PaymentStatus:          string(data.PaymentStatus),
		OrderStatus:            string(data.OrderStatus),
	}

	orderM.Items = make([]model.OrderItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			ProductName:        item.ProductName,
			ProductSKU:         item.ProductSKU,
			Price:              item.Price,
			DiscountPercentage: item.DiscountPercentage,
			Quantity:           item.Quantity,
			Subtotal:           item.Subtotal,
		})
	}

	return orderM
}
