// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrGuestSessionNotFound is returned when a guest session is not found.
// Expiry is not a persistence concern: lookups return expired sessions
// as-is and callers decide how expiry surfaces.
var ErrGuestSessionNotFound = errors.New("guest session not found")

// GuestSessionRepository defines the standard operations for guest session persistence.
type GuestSessionRepository interface {
	// Create persists a new guest session.
	Create(ctx context.Context, session *entity.GuestSession) error

	// FindByToken retrieves a session by its opaque token, expired or not.
	FindByToken(ctx context.Context, token string) (*entity.GuestSession, error)

	// Delete removes a session by its ID. Deleting an absent session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes all sessions past their expiry and returns how
	// many were removed. Intended for out-of-band cleanup.
	DeleteExpired(ctx context.Context) (int, error)
}
