package service

import (
	"storefront/internal/domain/entity"
)

// ResetTokenService issues and checks single-purpose password reset tokens.
// Tokens embed their own expiry and are derived from the account's current
// credential state, so changing the password invalidates outstanding tokens
// without any server-side token storage.
type ResetTokenService interface {
	// Generate creates a reset token for the user bound to the given
	// password hash. The token carries its expiry in the format
	// "<token>:<unix-expiry>".
	Generate(user *entity.User, passwordHash string) (string, error)

	// Check verifies a token against the user's current password hash.
	// It returns false for malformed, expired, or re-keyed tokens.
	Check(user *entity.User, passwordHash, token string) bool
}
