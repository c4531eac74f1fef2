package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel mirrors the 'orders' table. OrderNumber carries a unique index;
// the checkout flow relies on it to detect number collisions and retry once.
type OrderModel struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	OrderNumber            string     `gorm:"type:varchar(50);unique;not null"`
	UserID                 *uuid.UUID `gorm:"type:uuid;index"`
	FirstName              string     `gorm:"type:varchar(100);not null"`
	LastName               string     `gorm:"type:varchar(100);not null"`
	Email                  string     `gorm:"type:varchar(255);not null"`
	Mobile                 string     `gorm:"type:varchar(50)"`
	Address                string     `gorm:"type:text;not null"`
	City                   string     `gorm:"type:varchar(100);not null"`
	Country                string     `gorm:"type:varchar(100);not null"`
	Zipcode                string     `gorm:"type:varchar(20)"`
	ShipToDifferentAddress bool       `gorm:"not null;default:false"`
	IsGuestOrder           bool       `gorm:"not null;default:false"`
	TotalAmount            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentStatus          string          `gorm:"type:varchar(20);not null;default:'pending'"`
	OrderStatus            string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt              time.Time
	UpdatedAt              time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. ProductID is nullable and
// set NULL on product deletion; the snapshot columns are the durable record.
type OrderItemModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	OrderID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          *uuid.UUID      `gorm:"type:uuid;constraint:OnDelete:SET NULL"`
	ProductName        string          `gorm:"type:varchar(255);not null"`
	ProductSKU         string          `gorm:"type:varchar(100);not null"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercentage int             `gorm:"not null;default:0"`
	Quantity           int             `gorm:"not null;check:quantity >= 1"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
