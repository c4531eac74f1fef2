// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// defaultForbiddenWords are rejected as password substrings regardless of policy.
var defaultForbiddenWords = []string{"password", "admin", "qwerty", "123456"}

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost           int
	strength       *config.PasswordStrengthConfig
	forbiddenWords []string
}

// NewBcryptHasher is the constructor for bcryptHasher. The bcrypt cost and
// strength policy come from configuration; zero values fall back to sane defaults.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	var strength *config.PasswordStrengthConfig
	if cfg != nil {
		strength = cfg.PasswordStrength
	}

	return &bcryptHasher{
		cost:           cost,
		strength:       strength,
		forbiddenWords: defaultForbiddenWords,
	}
}

// NewBcryptHasherWithCost creates a hasher with an explicit cost, primarily for tests.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return &bcryptHasher{
		cost:           cost,
		forbiddenWords: defaultForbiddenWords,
	}
}

// Hash validates password strength, then generates a salted bcrypt hash.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if err := h.ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a hash to see if they match.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks a plaintext password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	minLength, maxLength := 8, 128
	requireUpper, requireLower, requireNumber, requireSpecial := true, true, true, true

	if h.strength != nil {
		if h.strength.MinLength > 0 {
			minLength = h.strength.MinLength
		}
		if h.strength.MaxLength > 0 {
			maxLength = h.strength.MaxLength
		}
		requireUpper = h.strength.RequireUppercase
		requireLower = h.strength.RequireLowercase
		requireNumber = h.strength.RequireNumbers
		requireSpecial = h.strength.RequireSpecial
	}

	if len(password) < minLength {
		return errors.Wrapf(domainerrors.ErrPasswordStrength, "password must be at least %d characters long", minLength)
	}
	if len(password) > maxLength {
		return errors.Wrapf(domainerrors.ErrPasswordStrength, "password must be at most %d characters long", maxLength)
	}

	if requireLower && !h.hasLowercase(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password must contain at least one lowercase letter")
	}
	if requireUpper && !h.hasUppercase(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password must contain at least one uppercase letter")
	}
	if requireNumber && !h.hasNumbers(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password must contain at least one number")
	}
	if requireSpecial && !h.hasSpecialChars(password) {
		return errors.Wrap(domainerrors.ErrPasswordStrength, "password must contain at least one special character")
	}

	if h.containsForbiddenWords(password, h.forbiddenWords) {
		return errors.Wrap(domainerrors.ErrPasswordForbiddenWords, "password contains forbidden words")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsUpper)
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.ContainsFunc(s, unicode.IsLower)
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

func (h *bcryptHasher) containsForbiddenWords(password string, forbiddenWords []string) bool {
	lowered := strings.ToLower(password)
	for _, word := range forbiddenWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}

	return false
}
