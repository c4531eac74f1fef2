package main

import (
	"storefront/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.UserProfileModel{},
		model.MerchantProfileModel{},
		model.AuthenticationModel{},
		model.RefreshTokenModel{},
		model.ProductModel{},
		model.CartModel{},
		model.CartLineModel{},
		model.GuestSessionModel{},
		model.OrderModel{},
		model.OrderItemModel{},
		model.ReviewModel{},
		model.BlogPostModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
