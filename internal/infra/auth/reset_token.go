// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

const defaultResetTokenTTL = time.Hour

// resetTokenService issues stateless password reset tokens in the form
// "<token>:<unix-expiry>". The token part is an HMAC over the user identity,
// the expiry, and the current password hash, so a completed reset (which
// changes the hash) invalidates every outstanding token for the account.
type resetTokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokenService is the constructor for resetTokenService.
func NewResetTokenService(cfg *config.Config) (service.ResetTokenService, error) {
	if cfg.PasswordReset == nil || cfg.PasswordReset.Secret == "" {
		return nil, errors.New("password reset secret must be provided")
	}

	ttl := cfg.PasswordReset.TokenTTL
	if ttl <= 0 {
		ttl = defaultResetTokenTTL
	}

	return &resetTokenService{
		secret: []byte(cfg.PasswordReset.Secret),
		ttl:    ttl,
	}, nil
}

// Generate creates a reset token for the user bound to the given password hash.
func (s *resetTokenService) Generate(user *entity.User, passwordHash string) (string, error) {
	if user == nil {
		return "", errors.New("user must be provided")
	}

	expiry := time.Now().Add(s.ttl).Unix()

	return s.sign(user, passwordHash, expiry) + ":" + strconv.FormatInt(expiry, 10), nil
}

// Check verifies a token against the user's current password hash.
func (s *resetTokenService) Check(user *entity.User, passwordHash, token string) bool {
	if user == nil || token == "" {
		return false
	}

	// The expiry is everything after the last colon; the signed part may
	// not contain colons but splitting from the right keeps parsing robust.
	idx := strings.LastIndex(token, ":")
	if idx <= 0 {
		return false
	}

	signedPart, expiryPart := token[:idx], token[idx+1:]

	expiry, err := strconv.ParseInt(expiryPart, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > expiry {
		return false
	}

	expected := s.sign(user, passwordHash, expiry)

	return hmac.Equal([]byte(signedPart), []byte(expected))
}

// sign derives the HMAC token part from the identity, expiry, and credential state.
func (s *resetTokenService) sign(user *entity.User, passwordHash string, expiry int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%d|%s", user.ID, user.Email, expiry, passwordHash)

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
