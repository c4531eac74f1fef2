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
	"gorm.io/gorm/clause"
)

// cartRepository implements the repository.CartRepository interface.
type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository is the constructor for cartRepository.
func NewCartRepository(db *gorm.DB) repository.CartRepository {
	return &cartRepository{
		db: db,
	}
}

// FindByUserID retrieves the cart of a registered user, with lines and products.
func (repo *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel

	if err := repo.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Preload("Lines.Product").
		Where("user_id = ?", userID).
		First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by user")
	}

	return toCartDomain(&cartM), nil
}

// FindByGuestSessionID retrieves the cart of a guest session, with lines and products.
func (repo *cartRepository) FindByGuestSessionID(ctx context.Context, sessionID uuid.UUID) (*entity.Cart, error) {
	var cartM model.CartModel

	if err := repo.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Preload("Lines.Product").
		Where("guest_session_id = ?", sessionID).
		First(&cartM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart by guest session")
	}

	return toCartDomain(&cartM), nil
}

// Create persists a new empty cart for the given owner. The partial unique
// indexes on the owner columns turn a get-or-create race into a conflict
// that callers resolve by re-reading the winner's cart.
func (repo *cartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	// Exactly one owner column must be set; the chk_carts_owner_xor CHECK
	// constraint rejects anything else, this guard just fails earlier.
	if (cart.UserID == nil) == (cart.GuestSessionID == nil) {
		return domainerrors.ErrValidationFailed.WrapMessage("cart owner must be exactly one of user or guest session")
	}

	cartM := fromCartDomain(cart)

	if err := repo.db.WithContext(ctx).Create(cartM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return repository.ErrCartOwnerConflict
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid cart owner reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create cart")
	}

	// Update the entity with generated values
	cart.ID = cartM.ID
	cart.CreatedAt = cartM.CreatedAt
	cart.UpdatedAt = cartM.UpdatedAt

	return nil
}

// UpsertLine atomically adds quantity units of a product to a cart. The
// ON CONFLICT clause on (cart_id, product_id) accumulates quantity when the
// line already exists, so concurrent adds never produce duplicate lines.
func (repo *cartRepository) UpsertLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) (bool, error) {
	lineM := &model.CartLineModel{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_lines.quantity + ?", quantity),
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(lineM)

	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return false, domainerrors.NewDatabaseExecuteError(result.Error, "invalid cart or product reference")
		}
		if isCheckConstraintViolation(result.Error) {
			return false, domainerrors.ErrQuantityInvalid
		}

		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to upsert cart line")
	}

	// A fresh insert keeps the ID we generated; an update keeps the old row's.
	var stored model.CartLineModel
	if err := repo.db.WithContext(ctx).
		Select("id").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&stored).Error; err != nil {
		return false, errors.Wrap(err, "failed to resolve upserted cart line")
	}

	return stored.ID == lineM.ID, nil
}

// FindLine retrieves the line of a specific product in a cart.
func (repo *cartRepository) FindLine(ctx context.Context, cartID, productID uuid.UUID) (*entity.CartLine, error) {
	var lineM model.CartLineModel

	if err := repo.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&lineM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCartLineNotFound
		}

		return nil, errors.Wrap(err, "failed to find cart line")
	}

	return toCartLineDomain(&lineM), nil
}

// SetLineQuantity overwrites the quantity of an existing line.
func (repo *cartRepository) SetLineQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CartLineModel{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrQuantityInvalid
		}

		return errors.Wrap(result.Error, "failed to set cart line quantity")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteLine removes the line of a specific product from a cart.
func (repo *cartRepository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartLineModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete cart line")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartLineNotFound
	}

	return nil
}

// DeleteLines removes every line from a cart and returns how many were removed.
func (repo *cartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID) (int, error) {
	result := repo.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartLineModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete cart lines")
	}

	return int(result.RowsAffected), nil
}

// DeleteCart removes a cart; its lines go with it via ON DELETE CASCADE.
func (repo *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", cartID).
		Delete(&model.CartModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete cart")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCartNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toCartDomain converts a GORM CartModel to a domain Cart entity.
func toCartDomain(data *model.CartModel) *entity.Cart {
	if data == nil {
		return nil
	}

	cart := &entity.Cart{
		ID:             data.ID,
		UserID:         data.UserID,
		GuestSessionID: data.GuestSessionID,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}

	cart.Lines = make([]*entity.CartLine, 0, len(data.Lines))
	for i := range data.Lines {
		cart.Lines = append(cart.Lines, toCartLineDomain(&data.Lines[i]))
	}

	return cart
}

// toCartLineDomain converts a GORM CartLineModel to a domain CartLine entity.
func toCartLineDomain(data *model.CartLineModel) *entity.CartLine {
	if data == nil {
		return nil
	}

	return &entity.CartLine{
		ID:        data.ID,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Product:   toProductDomain(data.Product),
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCartDomain converts a domain Cart entity to a GORM CartModel.
func fromCartDomain(data *entity.Cart) *model.CartModel {
	if data == nil {
		return nil
	}

	return &model.CartModel{
		ID:             data.ID,
		UserID:         data.UserID,
		GuestSessionID: data.GuestSessionID,
	}
}
