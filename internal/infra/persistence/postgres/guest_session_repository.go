// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// guestSessionRepository implements the repository.GuestSessionRepository interface.
type guestSessionRepository struct {
	db *gorm.DB
}

// NewGuestSessionRepository is the constructor for guestSessionRepository.
func NewGuestSessionRepository(db *gorm.DB) repository.GuestSessionRepository {
	return &guestSessionRepository{
		db: db,
	}
}

// Create persists a new guest session.
func (repo *guestSessionRepository) Create(ctx context.Context, session *entity.GuestSession) error {
	sessionM := fromGuestSessionDomain(session)

	if err := repo.db.WithContext(ctx).Create(sessionM).Error; err != nil {
		// Token collisions are practically impossible for random tokens;
		// surface them as an internal error rather than a domain conflict.
		return domainerrors.NewDatabaseExecuteError(err, "failed to create guest session")
	}

	// Update the entity with generated values
	session.ID = sessionM.ID
	session.CreatedAt = sessionM.CreatedAt

	return nil
}

// FindByToken retrieves a session by its opaque token, expired or not.
// Expiry stays the caller's concern: consumers treat an expired session as
// absent, but the distinct expired state maps to its own error code.
func (repo *guestSessionRepository) FindByToken(ctx context.Context, token string) (*entity.GuestSession, error) {
	var sessionM model.GuestSessionModel

	if err := repo.db.WithContext(ctx).
		Where("token = ?", token).
		First(&sessionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrGuestSessionNotFound
		}

		return nil, errors.Wrap(err, "failed to find guest session by token")
	}

	return toGuestSessionDomain(&sessionM), nil
}

// Delete removes a session by its ID. Deleting an absent session is not an error.
func (repo *guestSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.GuestSessionModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete guest session")
	}

	return nil
}

// DeleteExpired removes all sessions past their expiry and returns how many were removed.
func (repo *guestSessionRepository) DeleteExpired(ctx context.Context) (int, error) {
	result := repo.db.WithContext(ctx).
		Where("expires_at <= ?", time.Now()).
		Delete(&model.GuestSessionModel{})

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete expired guest sessions")
	}

	return int(result.RowsAffected), nil
}

// --- Mapper Functions ---

// toGuestSessionDomain converts a GORM GuestSessionModel to a domain GuestSession entity.
func toGuestSessionDomain(data *model.GuestSessionModel) *entity.GuestSession {
	if data == nil {
		return nil
	}

	return &entity.GuestSession{
		ID:        data.ID,
		Token:     data.Token,
		CreatedAt: data.CreatedAt,
		ExpiresAt: data.ExpiresAt,
	}
}

// fromGuestSessionDomain converts a domain GuestSession entity to a GORM GuestSessionModel.
func fromGuestSessionDomain(data *entity.GuestSession) *model.GuestSessionModel {
	if data == nil {
		return nil
	}

	return &model.GuestSessionModel{
		ID:        data.ID,
		Token:     data.Token,
		ExpiresAt: data.ExpiresAt,
	}
}
