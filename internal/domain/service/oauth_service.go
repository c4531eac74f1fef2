package service

import (
	"context"

	"storefront/internal/domain/entity"
)

// OAuthUser represents user information from OAuth providers
type OAuthUser struct {
	ID            string              // Provider-specific user ID (e.g., Google's 'sub' claim)
	Email         string              // User's email address
	Name          string              // User's display name
	Provider      entity.ProviderType // The OAuth provider (google, apple, etc.)
	ProfileURL    string              // URL to user's profile page
	AvatarURL     string              // URL to user's profile picture
	EmailVerified bool                // Whether the email is verified by the provider
	Locale        string              // User's locale/language preference
	ExtraData     map[string]any      // Additional provider-specific data
}

// OAuthConfig carries the provider settings needed by the authorization-code flow.
type OAuthConfig struct {
	ClientID     string              // OAuth client ID issued by the provider
	ClientSecret string              // OAuth client secret for the code exchange
	RedirectURI  string              // Registered redirect URI for the callback
	Scopes       string              // Space-separated scopes to request
	Provider     entity.ProviderType // The provider this config belongs to
}

// OAuthAuthService defines the interface for OAuth authentication operations
// This is specifically for ID token verification (like Google ID tokens)
type OAuthAuthService interface {
	// VerifyIDToken verifies an OAuth ID token and returns user information
	// This is primarily used for Google Sign-In where the client sends an ID token directly
	VerifyIDToken(ctx context.Context, idToken string) (*OAuthUser, error)

	// GetProvider returns the OAuth provider type
	GetProvider() entity.ProviderType
}

// OAuthService defines the interface for the server-side authorization-code flow.
type OAuthService interface {
	// BuildAuthorizationURL constructs the provider's consent URL carrying the given CSRF state.
	BuildAuthorizationURL(state string) string

	// ValidateState checks and consumes a previously issued state parameter.
	ValidateState(state string) bool

	// ExchangeCodeForToken exchanges an authorization code for an access token.
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)

	// GetUserInfo retrieves the provider's profile for an access token.
	GetUserInfo(ctx context.Context, accessToken string) (*OAuthUser, error)

	// GetProvider returns the OAuth provider type.
	GetProvider() entity.ProviderType

	// ToDomainConfig exposes the provider settings as a domain-level config.
	ToDomainConfig() OAuthConfig
}
