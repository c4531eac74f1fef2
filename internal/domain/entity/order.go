// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the payment lifecycle of an order.
type PaymentStatus string

const (
	// PaymentStatusPending indicates payment has not been collected yet.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPaid indicates payment has been collected.
	PaymentStatusPaid PaymentStatus = "paid"
	// PaymentStatusFailed indicates payment collection failed.
	PaymentStatusFailed PaymentStatus = "failed"
)

// OrderStatus tracks the fulfillment lifecycle of an order.
type OrderStatus string

const (
	// OrderStatusPending indicates a freshly placed order.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing indicates the order is being prepared.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped indicates the order has left the warehouse.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the customer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CustomerInfo carries the contact and shipping details captured at checkout.
// It is stored on the order verbatim; no address normalization is applied.
type CustomerInfo struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Address   string
	City      string
	Country   string
	Zipcode   string
}

// Order is an immutable record of a completed checkout. Customer details and
// item prices are snapshotted at creation time and never rewritten, so the
// order remains a faithful receipt even after catalog changes.
type Order struct {
	ID                     uuid.UUID       // The unique identifier of the order.
	OrderNumber            string          // Human-readable number, e.g. ORD-20260115-143501-0042; unique.
	UserID                 *uuid.UUID      // The ordering user; nil for guest orders.
	Customer               CustomerInfo    // Snapshot of contact and shipping details.
	ShipToDifferentAddress bool            // Whether the shipping address differs from the billing one.
	IsGuestOrder           bool            // True when the order was placed without an account.
	TotalAmount            decimal.Decimal // Sum of item subtotals, exact decimal.
	PaymentStatus          PaymentStatus   // Starts at pending; payment collection is out of band.
	OrderStatus            OrderStatus     // Fulfillment status, starts at pending.
	Items                  []*OrderItem
	CreatedAt              time.Time // Timestamp of when the order was placed.
	UpdatedAt              time.Time // Timestamp of the last status change.
}

// OrderItem is a priced snapshot of one product at the moment of checkout.
// ProductID is nullable so the snapshot survives product deletion; the
// name, SKU, price, and discount captured here are authoritative.
type OrderItem struct {
	ID                 uuid.UUID       // The unique identifier of the item.
	OrderID            uuid.UUID       // The order this item belongs to.
	ProductID          *uuid.UUID      // Reference to the catalog product; nil once the product is deleted.
	ProductName        string          // Product name at checkout time.
	ProductSKU         string          // Product SKU at checkout time.
	Price              decimal.Decimal // List unit price at checkout time.
	DiscountPercentage int             // Discount percentage at checkout time.
	Quantity           int             // Number of units ordered.
	Subtotal           decimal.Decimal // Discounted unit price * quantity, exact decimal.
}

// UnitPriceAfterDiscount returns the snapshotted effective unit price:
// price * (1 - discount/100).
func (i *OrderItem) UnitPriceAfterDiscount() decimal.Decimal {
	if i.DiscountPercentage <= 0 {
		return i.Price
	}

	factor := decimal.NewFromInt(100 - int64(i.DiscountPercentage)).
		Div(decimal.NewFromInt(100))

	return i.Price.Mul(factor)
}
