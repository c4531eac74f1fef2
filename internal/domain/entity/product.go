// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductType categorizes products for catalog filtering.
type ProductType string

const (
	// ProductTypeClothing indicates apparel products.
	ProductTypeClothing ProductType = "clothing"
	// ProductTypeShoes indicates footwear products.
	ProductTypeShoes ProductType = "shoes"
	// ProductTypeAccessory indicates accessory products.
	ProductTypeAccessory ProductType = "accessory"
	// ProductTypeOther is the catch-all product category.
	ProductTypeOther ProductType = "other"
)

// IsValid checks if the ProductType is a valid value.
func (t ProductType) IsValid() bool {
	switch t {
	case ProductTypeClothing, ProductTypeShoes, ProductTypeAccessory, ProductTypeOther:
		return true
	default:
		return false
	}
}

// Product is a catalog item offered for sale.
// Price is kept as an exact decimal; DiscountPercentage is a whole-number
// percentage in [0, 100] applied at quotation and checkout time.
type Product struct {
	ID                 uuid.UUID       // The unique identifier of the product.
	Name               string          // The product's display name.
	SKU                string          // The stock keeping unit; unique across the catalog.
	Description        string          // Free-form product description.
	Brand              string          // The brand name, if any.
	ProductType        ProductType     // The catalog category of the product.
	Price              decimal.Decimal // The list price before discount.
	DiscountPercentage int             // Whole-number discount percentage, 0 when not discounted.
	ImageKey           string          // Object key of the product image in blob storage; empty when none.
	IsFeatured         bool            // Whether the product appears in the featured listing.
	IsActive           bool            // Inactive products are hidden from the catalog, cart, and checkout.
	CreatedAt          time.Time       // Timestamp of when the product was created.
	UpdatedAt          time.Time       // Timestamp of the last modification.
}

// DiscountedPrice returns the effective unit price after applying the
// discount percentage: price * (1 - discount/100), computed exactly.
func (p *Product) DiscountedPrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}

	factor := decimal.NewFromInt(100 - int64(p.DiscountPercentage)).
		Div(decimal.NewFromInt(100))

	return p.Price.Mul(factor)
}
