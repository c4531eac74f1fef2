// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
// GuestToken, when present, identifies a guest cart to merge after signup.
type RegisterUserInput struct {
	Name       string
	Email      string
	Password   string
	GuestToken string
}

// RegisterMerchantInput defines the data required to register a new merchant.
type RegisterMerchantInput struct {
	Name            string
	Email           string
	Password        string
	StoreName       string
	BusinessLicense string
}

// LoginInput defines the data required for a user to log in.
// GuestToken, when present, identifies a guest cart to merge after login.
type LoginInput struct {
	Email      string
	Password   string
	GuestToken string
}

// RefreshTokenInput carries the raw refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the raw refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// GoogleCallbackInput defines the data accepted by the Google sign-in callback.
// Clients either post an ID token directly (Google Sign-In on the client) or
// the authorization code and state of the server-side flow; exactly one of
// the two shapes is expected.
type GoogleCallbackInput struct {
	IDToken    string
	Code       string
	State      string
	GuestToken string
}

// RequestPasswordResetInput identifies the account asking for a reset link.
type RequestPasswordResetInput struct {
	Email string
}

// ConfirmPasswordResetInput carries the emailed token and the new password.
type ConfirmPasswordResetInput struct {
	Email       string
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the re-issued access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// ActiveSessionOutput describes one live session of a user.
type ActiveSessionOutput struct {
	ID        uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*RegisterOutput, error)
	RegisterMerchant(ctx context.Context, input RegisterMerchantInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenOutput, error)
	Logout(ctx context.Context, input LogoutInput) error

	// Session management across devices.
	LogoutAllDevices(ctx context.Context, userID uuid.UUID) error
	GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*ActiveSessionOutput, error)
	RevokeSession(ctx context.Context, userID, sessionID uuid.UUID) error

	// Google sign-in and account linking.
	GoogleAuthURL(ctx context.Context) (string, error)
	GoogleCallback(ctx context.Context, input GoogleCallbackInput) (*LoginOutput, error)
	LinkGoogleAccount(ctx context.Context, userID uuid.UUID, idToken string) error
	UnlinkGoogleAccount(ctx context.Context, userID uuid.UUID) error

	// Password reset over email.
	RequestPasswordReset(ctx context.Context, input RequestPasswordResetInput) error
	ConfirmPasswordReset(ctx context.Context, input ConfirmPasswordResetInput) error
}
