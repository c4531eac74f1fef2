package google

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func newOAuthConfig() *config.Config {
	cfg := &config.Config{}
	cfg.GoogleOAuth = &config.GoogleOAuthConfig{
		ClientID:     "test_client_id",
		ClientSecret: "test_secret",
		RedirectURI:  "http://localhost:8080/callback",
		Scopes:       "openid email profile",
	}

	return cfg
}

func TestOAuthService_BuildAuthorizationURL(t *testing.T) {
	service := NewOAuthService(newOAuthConfig())

	result := service.BuildAuthorizationURL("csrf_state_123")

	assert.Contains(t, result, "https://accounts.google.com/o/oauth2/v2/auth?")
	assert.Contains(t, result, "client_id=test_client_id")
	assert.Contains(t, result, "redirect_uri=http%3A%2F%2Flocalhost%3A8080%2Fcallback")
	assert.Contains(t, result, "scope=openid+email+profile")
	assert.Contains(t, result, "response_type=code")
	assert.Contains(t, result, "state=csrf_state_123")
}

func TestOAuthService_ValidateState(t *testing.T) {
	service := NewOAuthService(newOAuthConfig())

	// Unknown state is rejected
	assert.False(t, service.ValidateState("never_issued"))

	// Issued state passes exactly once
	service.BuildAuthorizationURL("csrf_state_123")
	assert.True(t, service.ValidateState("csrf_state_123"))
	assert.False(t, service.ValidateState("csrf_state_123"))
}

func TestOAuthService_ValidateState_Expired(t *testing.T) {
	service := NewOAuthService(newOAuthConfig()).(*OAuthService)

	service.stateMutex.Lock()
	service.stateStore["stale_state"] = time.Now().Add(-time.Minute)
	service.stateMutex.Unlock()

	assert.False(t, service.ValidateState("stale_state"))
}

func TestOAuthService_GetProvider(t *testing.T) {
	service := NewOAuthService(newOAuthConfig())

	assert.Equal(t, entity.ProviderTypeGoogle, service.GetProvider())
}

func TestOAuthService_ToDomainConfig(t *testing.T) {
	service := NewOAuthService(newOAuthConfig())

	domainConfig := service.ToDomainConfig()
	assert.Equal(t, "test_client_id", domainConfig.ClientID)
	assert.Equal(t, "openid email profile", domainConfig.Scopes)
	assert.Equal(t, entity.ProviderTypeGoogle, domainConfig.Provider)
}
