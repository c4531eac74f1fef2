package model

import (
	"time"

	"github.com/google/uuid"
)

// CartModel mirrors the 'carts' table. Exactly one of UserID / GuestSessionID
// is set; a CHECK constraint enforces the XOR and partial unique indexes
// enforce at most one cart per identity, so a concurrent get-or-create race
// always collapses onto a single row.
type CartModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_carts_user_id,where:user_id IS NOT NULL;check:chk_carts_owner_xor,(user_id IS NULL) <> (guest_session_id IS NULL)"`
	GuestSessionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_carts_guest_session_id,where:guest_session_id IS NOT NULL"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Lines []CartLineModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (CartModel) TableName() string {
	return "carts"
}

// CartLineModel mirrors the 'cart_lines' table. The composite unique index on
// (cart_id, product_id) is what lets concurrent adds resolve as one atomic
// ON CONFLICT upsert instead of duplicate lines.
type CartLineModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_cart_product"`
	Quantity  int       `gorm:"not null;default:1;check:quantity >= 1"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName explicitly sets the table name for GORM.
func (CartLineModel) TableName() string {
	return "cart_lines"
}
