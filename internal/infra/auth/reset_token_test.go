package auth

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResetConfig(ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.PasswordReset = &config.PasswordResetConfig{
		Secret:   "test_reset_secret",
		TokenTTL: ttl,
	}

	return cfg
}

func TestResetTokenService_GenerateAndCheck(t *testing.T) {
	svc, err := NewResetTokenService(newResetConfig(time.Hour))
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "shopper@example.com"}
	passwordHash := "$2a$10$somebcrypthash"

	token, err := svc.Generate(user, passwordHash)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Token carries its expiry after the last colon
	idx := strings.LastIndex(token, ":")
	require.Greater(t, idx, 0)
	expiry, err := strconv.ParseInt(token[idx+1:], 10, 64)
	require.NoError(t, err)
	assert.Greater(t, expiry, time.Now().Unix())

	assert.True(t, svc.Check(user, passwordHash, token))
}

func TestResetTokenService_PasswordChangeInvalidatesToken(t *testing.T) {
	svc, err := NewResetTokenService(newResetConfig(time.Hour))
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "shopper@example.com"}

	token, err := svc.Generate(user, "old-hash")
	require.NoError(t, err)

	// A completed reset rotates the stored hash, which re-keys the HMAC
	assert.False(t, svc.Check(user, "new-hash", token))
}

func TestResetTokenService_ExpiredToken(t *testing.T) {
	svc, err := NewResetTokenService(newResetConfig(-time.Minute))
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "shopper@example.com"}
	passwordHash := "hash"

	token, err := svc.Generate(user, passwordHash)
	require.NoError(t, err)

	assert.False(t, svc.Check(user, passwordHash, token))
}

func TestResetTokenService_MalformedToken(t *testing.T) {
	svc, err := NewResetTokenService(newResetConfig(time.Hour))
	require.NoError(t, err)

	user := &entity.User{ID: uuid.New(), Email: "shopper@example.com"}

	assert.False(t, svc.Check(user, "hash", ""))
	assert.False(t, svc.Check(user, "hash", "no-expiry-part"))
	assert.False(t, svc.Check(user, "hash", "token:not-a-number"))
	assert.False(t, svc.Check(user, "hash", "forged:"+strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)))
}

func TestResetTokenService_RequiresSecret(t *testing.T) {
	_, err := NewResetTokenService(&config.Config{})
	assert.Error(t, err)
}
