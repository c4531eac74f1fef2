// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAuthNotFound is returned when an authentication method is not found.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var ErrAuthNotFound = errors.New("authentication method not found")

// AuthRepository defines the standard operations for authentication-related persistence.
type AuthRepository interface {
	// CreateAuthentication persists a new authentication method (e.g., email/password, social login).
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// FindAuthentication retrieves an authentication method by its provider and provider-specific ID.
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)

	// FindAuthenticationByUserIDAndProvider finds an authentication method for a specific user and provider.
	FindAuthenticationByUserIDAndProvider(ctx context.Context, userID uuid.UUID, provider entity.ProviderType) (*entity.Authentication, error)

	// UpdateAuthentication updates an existing authentication record.
	UpdateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// DeleteAuthentication removes an authentication method by its ID.
	DeleteAuthentication(ctx context.Context, id uuid.UUID) error

	// ListAuthenticationsByUserID returns all authentication methods for a specific user.
	ListAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error)
}
