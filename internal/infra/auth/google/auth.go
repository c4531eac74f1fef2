// Package google implements Google Sign-In verification and the server-side OAuth flow.
package google

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// tokenValidator abstracts idtoken.Validate so tests can swap the network call.
type tokenValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// AuthServiceImpl implements service.OAuthAuthService for Google ID tokens.
// Verification is delegated to Google's idtoken package, which checks the
// signature against Google's published keys plus the issuer and expiry.
type AuthServiceImpl struct {
	clientID string
	logger   *slog.Logger
	validate tokenValidator
}

// NewAuthService creates a new Google AuthService
func NewAuthService(cfg *config.Config, logger *slog.Logger) service.OAuthAuthService {
	return &AuthServiceImpl{
		clientID: cfg.GoogleOAuth.ClientID,
		logger:   logger,
		validate: idtoken.Validate,
	}
}

// VerifyIDToken implements service.OAuthAuthService interface
func (s *AuthServiceImpl) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	s.logger.Info("Verifying Google ID token", "clientID", s.clientID)

	payload, err := s.validate(ctx, idToken, s.clientID)
	if err != nil {
		s.logger.Error("Token verification failed", "error", err)

		return nil, errors.Wrap(err, "token verification failed")
	}

	claims := payload.Claims

	emailVerified, _ := claims["email_verified"].(bool)
	if !emailVerified {
		s.logger.Error("Token verification failed", "error", "email not verified")

		return nil, errors.New("email not verified")
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	picture, _ := claims["picture"].(string)
	givenName, _ := claims["given_name"].(string)
	familyName, _ := claims["family_name"].(string)
	locale, _ := claims["locale"].(string)

	oauthUser := &service.OAuthUser{
		ID:            payload.Subject,
		Email:         email,
		Name:          name,
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     picture,
		EmailVerified: emailVerified,
		Locale:        locale,
		ExtraData: map[string]any{
			"given_name":  givenName,
			"family_name": familyName,
		},
	}

	s.logger.Info("Google ID token verified successfully",
		slog.String("userID", oauthUser.ID),
		slog.String("email", oauthUser.Email))

	return oauthUser, nil
}

// GetProvider returns the OAuth provider type
func (s *AuthServiceImpl) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}
