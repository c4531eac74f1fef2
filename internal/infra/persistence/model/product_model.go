package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel mirrors the 'products' table. Prices are DECIMAL(10,2) so
// money stays exact end to end.
type ProductModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name               string          `gorm:"type:varchar(255);not null"`
	SKU                string          `gorm:"type:varchar(100);unique;not null"`
	Description        string          `gorm:"type:text"`
	Brand              string          `gorm:"type:varchar(100)"`
	ProductType        string          `gorm:"type:varchar(50);not null;index"`
	Price              decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountPercentage int             `gorm:"not null;default:0;check:discount_percentage >= 0 AND discount_percentage <= 100"`
	ImageKey           string          `gorm:"type:varchar(255)"`
	IsFeatured         bool            `gorm:"not null;default:false;index"`
	IsActive           bool            `gorm:"not null;default:true;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
