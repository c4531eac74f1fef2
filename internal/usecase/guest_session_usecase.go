package usecase

import (
	"context"
	"time"
)

// GuestSessionOutput returns the opaque token the client stores and presents
// via the X-Guest-Token header, together with its expiry.
type GuestSessionOutput struct {
	Token     string
	ExpiresAt time.Time
}

// GuestSessionUsecase defines the interface for anonymous shopping sessions.
type GuestSessionUsecase interface {
	// CreateSession mints a fresh guest session with the configured TTL.
	CreateSession(ctx context.Context) (*GuestSessionOutput, error)

	// CleanupExpired removes sessions past their expiry together with their
	// carts, returning how many sessions were removed. Intended for
	// out-of-band scheduling.
	CleanupExpired(ctx context.Context) (int, error)
}
