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

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// FindByID retrieves a product by its unique ID, active or not.
func (repo *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

// FindActiveByID retrieves a product by ID, treating inactive products as absent.
func (repo *productRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, errors.Wrap(err, "failed to find active product by ID")
	}

	return toProductDomain(&productM), nil
}

// FindActiveByIDs retrieves the active products among the given IDs, keyed by ID.
func (repo *productRepository) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*entity.Product{}, nil
	}

	var productModels []*model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active products by IDs")
	}

	products := make(map[uuid.UUID]*entity.Product, len(productModels))
	for _, productM := range productModels {
		products[productM.ID] = toProductDomain(productM)
	}

	return products, nil
}

// ListActive retrieves active products matching the filter, newest first.
func (repo *productRepository) ListActive(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	query := repo.db.WithContext(ctx).
		Where("is_active = ?", true)

	if filter.ProductType != "" {
		query = query.Where("product_type = ?", string(filter.ProductType))
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}

	var productModels []*model.ProductModel

	if err := query.
		Order("created_at DESC").
		Find(&productModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active products")
	}

	products := make([]*entity.Product, 0, len(productModels))
	for _, productM := range productModels {
		products = append(products, toProductDomain(productM))
	}

	return products, nil
}

// Create persists a new product.
func (repo *productRepository) Create(ctx context.Context, product *entity.Product) error {
	productM := fromProductDomain(product)

	if err := repo.db.WithContext(ctx).Create(productM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrProductSKUConflict
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a catalog constraint")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required product information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	// Update the entity with generated values
	product.ID = productM.ID
	product.CreatedAt = productM.CreatedAt
	product.UpdatedAt = productM.UpdatedAt

	return nil
}

// Update modifies an existing product.
func (repo *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ProductModel{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":                product.Name,
			"sku":                 product.SKU,
			"description":         product.Description,
			"brand":               product.Brand,
			"product_type":        string(product.ProductType),
			"price":               product.Price,
			"discount_percentage": product.DiscountPercentage,
			"image_key":           product.ImageKey,
			"is_featured":         product.IsFeatured,
			"is_active":           product.IsActive,
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrProductSKUConflict
		}
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("product violates a catalog constraint")
		}

		return errors.Wrap(result.Error, "failed to update product")
	}

	if result.RowsAffected == 0 {
		return repository.ErrProductNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:                 data.ID,
		Name:               data.Name,
		SKU:                data.SKU,
		Description:        data.Description,
		Brand:              data.Brand,
		ProductType:        entity.ProductType(data.ProductType),
		Price:              data.Price,
		DiscountPercentage: data.DiscountPercentage,
		ImageKey:           data.ImageKey,
		IsFeatured:         data.IsFeatured,
		IsActive:           data.IsActive,
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

// fromProductDomain converts a domain Product entity to a GORM ProductModel.
func fromProductDomain(data *entity.Product) *model.ProductModel {
	if data == nil {
		return nil
	}

	return &model.ProductModel{
		ID:                 data.ID,
		Name:               data.Name,
		SKU:                data.SKU,
		Description:        data.Description,
		Brand:              data.Brand,
		ProductType:        string(data.ProductType),
		Price:              data.Price,
		DiscountPercentage: data.DiscountPercentage,
		ImageKey:           data.ImageKey,
		IsFeatured:         data.IsFeatured,
		IsActive:           data.IsActive,
	}
}
