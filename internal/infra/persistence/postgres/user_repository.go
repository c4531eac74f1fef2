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

// userRepository implements the repository.UserRepository interface.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		db: db,
	}
}

// FindByID retrieves a user together with both role profiles.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("MerchantProfile").
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by ID")
	}

	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a user by email together with both role profiles.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Preload("UserProfile").
		Preload("MerchantProfile").
		Where("email = ?", email).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user and whatever role profiles are attached to it.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the entity with generated values
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	if user.UserProfile != nil && userM.UserProfile != nil {
		user.UserProfile.UserID = userM.UserProfile.UserID
		user.UserProfile.UpdatedAt = userM.UserProfile.UpdatedAt
	}
	if user.MerchantProfile != nil && userM.MerchantProfile != nil {
		user.MerchantProfile.UserID = userM.MerchantProfile.UserID
		user.MerchantProfile.UpdatedAt = userM.MerchantProfile.UpdatedAt
	}

	return nil
}

// Update modifies the core user record and upserts any attached profiles.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"email": user.Email,
			"name":  user.Name,
		})

	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrUserAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}

	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	if user.UserProfile != nil {
		profileM := fromUserProfileDomain(user.ID, user.UserProfile)
		if err := repo.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).
			Create(profileM).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to update user profile")
		}
	}

	if user.MerchantProfile != nil {
		profileM := fromMerchantProfileDomain(user.ID, user.MerchantProfile)
		if err := repo.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				UpdateAll: true,
			}).
			Create(profileM).Error; err != nil {
			if isUniqueConstraintViolation(err) {
				return domainerrors.ErrUserAlreadyExists
			}

			return domainerrors.NewDatabaseExecuteError(err, "failed to update merchant profile")
		}
	}

	return nil
}

// AcquireSessionMutex takes a FOR UPDATE lock on the user row so concurrent
// logins serialize their session-count checks within the transaction.
func (repo *userRepository) AcquireSessionMutex(ctx context.Context, userID uuid.UUID) error {
	var userM model.UserModel

	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		Where("id = ?", userID).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to acquire session mutex")
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:        data.ID,
		Email:     data.Email,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	if data.UserProfile != nil {
		user.UserProfile = &entity.UserProfile{
			UserID:                 data.UserProfile.UserID,
			DefaultShippingAddress: data.UserProfile.DefaultShippingAddress,
			LoyaltyPoints:          data.UserProfile.LoyaltyPoints,
			UpdatedAt:              data.UserProfile.UpdatedAt,
		}
	}

	if data.MerchantProfile != nil {
		user.MerchantProfile = &entity.MerchantProfile{
			UserID:           data.MerchantProfile.UserID,
			StoreName:        data.MerchantProfile.StoreName,
			StoreDescription: data.MerchantProfile.StoreDescription,
			BusinessLicense:  data.MerchantProfile.BusinessLicense,
			StoreAddress:     data.MerchantProfile.StoreAddress,
			UpdatedAt:        data.MerchantProfile.UpdatedAt,
		}
	}

	return user
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	userM := &model.UserModel{
		ID:    data.ID,
		Email: data.Email,
		Name:  data.Name,
	}

	if data.UserProfile != nil {
		userM.UserProfile = fromUserProfileDomain(data.ID, data.UserProfile)
	}

	if data.MerchantProfile != nil {
		userM.MerchantProfile = fromMerchantProfileDomain(data.ID, data.MerchantProfile)
	}

	return userM
}

// fromUserProfileDomain converts a domain UserProfile to a GORM UserProfileModel.
func fromUserProfileDomain(userID uuid.UUID, data *entity.UserProfile) *model.UserProfileModel {
	if data == nil {
		return nil
	}

	return &model.UserProfileModel{
		UserID:                 userID,
		DefaultShippingAddress: data.DefaultShippingAddress,
		LoyaltyPoints:          data.LoyaltyPoints,
	}
}

// fromMerchantProfileDomain converts a domain MerchantProfile to a GORM MerchantProfileModel.
func fromMerchantProfileDomain(userID uuid.UUID, data *entity.MerchantProfile) *model.MerchantProfileModel {
	if data == nil {
		return nil
	}

	return &model.MerchantProfileModel{
		UserID:           userID,
		StoreName:        data.StoreName,
		StoreDescription: data.StoreDescription,
		BusinessLicense:  data.BusinessLicense,
		StoreAddress:     data.StoreAddress,
	}
}
