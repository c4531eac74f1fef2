package impl

import (
	"context"
	"fmt"
	"log/slog"

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

// imageExtensions maps the accepted upload content types to object key suffixes.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// productService implements the ProductUsecase interface.
type productService struct {
	productRepo repository.ProductRepository
	imageStore  service.ImageStore
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo repository.ProductRepository
	ImageStore  service.ImageStore
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		productRepo: params.ProductRepo,
		imageStore:  params.ImageStore,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts returns active products matching the filter, newest first.
func (srv *productService) ListProducts(ctx context.Context, input usecase.ListProductsInput) ([]*entity.Product, error) {
	filter := repository.ProductFilter{FeaturedOnly: input.FeaturedOnly}

	if input.ProductType != "" {
		productType := entity.ProductType(input.ProductType)
		if !productType.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown product type")
		}
		filter.ProductType = productType
	}

	products, err := srv.productRepo.ListActive(ctx, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to list products", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct returns a single active product by ID.
func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		srv.log(ctx).Error("Failed to find product", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// CreateProduct adds a product to the catalog.
func (srv *productService) CreateProduct(ctx context.Context, input usecase.CreateProductInput) (*entity.Product, error) {
	product, err := buildProductEntity(uuid.Nil, input.Name, input.SKU, input.Description, input.Brand, input.ProductType, input.Price, input.DiscountPercentage, input.IsFeatured, input.IsActive)
	if err != nil {
		return nil, err
	}

	if err := srv.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductSKUConflict) {
			return nil, errors.Wrap(domainerrors.ErrProductSKUConflict, "sku already in use")
		}

		srv.log(ctx).Error("Failed to create product", slog.String("sku", input.SKU), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("sku", product.SKU))

	return product, nil
}

// UpdateProduct rewrites an existing product. Inactive products stay
// editable; only the public catalog hides them.
func (srv *productService) UpdateProduct(ctx context.Context, input usecase.UpdateProductInput) (*entity.Product, error) {
	product, err := buildProductEntity(input.ID, input.Name, input.SKU, input.Description, input.Brand, input.ProductType, input.Price, input.DiscountPercentage, input.IsFeatured, input.IsActive)
	if err != nil {
		return nil, err
	}

	existing, err := srv.productRepo.FindByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	// The image is managed by UploadProductImage, not the update payload.
	product.ImageKey = existing.ImageKey

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductSKUConflict) {
			return nil, errors.Wrap(domainerrors.ErrProductSKUConflict, "sku already in use")
		}

		srv.log(ctx).Error("Failed to update product", slog.Any("productID", input.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update product")
	}

	srv.log(ctx).Info("Product updated", slog.Any("productID", product.ID))

	return product, nil
}

// UploadProductImage stores the image stream and records its key on the product.
func (srv *productService) UploadProductImage(ctx context.Context, input usecase.UploadProductImageInput) (string, error) {
	ext, ok := imageExtensions[input.ContentType]
	if !ok {
		return "", errors.Wrap(domainerrors.ErrProductImageInvalid, "unsupported image content type")
	}

	product, err := srv.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return "", errors.Wrap(domainerrors.ErrProductNotFound, "product not found")
		}

		return "", errors.Wrap(err, "failed to find product")
	}

	key := fmt.Sprintf("products/%s%s", product.ID, ext)
	if err := srv.imageStore.Put(ctx, key, input.ContentType, input.Body); err != nil {
		srv.log(ctx).Error("Failed to store product image", slog.Any("productID", product.ID), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to store product image")
	}

	product.ImageKey = key
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return "", errors.Wrap(err, "failed to record product image key")
	}

	srv.log(ctx).Info("Product image uploaded", slog.Any("productID", product.ID), slog.String("key", key))

	return key, nil
}

// buildProductEntity validates and assembles a product from raw input fields.
func buildProductEntity(id uuid.UUID, name, sku, description, brand, productType, price string, discount int, isFeatured, isActive bool) (*entity.Product, error) {
	if name == "" || sku == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("product name and sku are required")
	}

	parsedType := entity.ProductType(productType)
	if !parsedType.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown product type")
	}

	parsedPrice, err := decimal.NewFromString(price)
	if err != nil || parsedPrice.IsNegative() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("price must be a non-negative decimal")
	}

	if discount < 0 || discount > 100 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("discount percentage must be between 0 and 100")
	}

	return &entity.Product{
		ID:                 id,
		Name:               name,
		SKU:                sku,
		Description:        description,
		Brand:              brand,
		ProductType:        parsedType,
		Price:              parsedPrice,
		DiscountPercentage: discount,
		IsFeatured:         isFeatured,
		IsActive:           isActive,
	}, nil
}
