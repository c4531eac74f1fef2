// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// RegisterUser handles the user registration request.
func (h *UserHandler) RegisterUser(c echo.Context) error {
	var input usecase.RegisterUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	if input.GuestToken == "" {
		input.GuestToken = guestToken(c)
	}

	output, err := h.uc.RegisterUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// RegisterMerchant handles the merchant registration request.
func (h *UserHandler) RegisterMerchant(c echo.Context) error {
	var input usecase.RegisterMerchantInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.uc.RegisterMerchant(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "Merchant registered successfully")
}

// Login handles the user login request.
func (h *UserHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	if input.GuestToken == "" {
		input.GuestToken = guestToken(c)
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RefreshToken handles the token refresh request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var input usecase.RefreshTokenInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Token refreshed successfully")
}

// Logout handles the user logout request.
func (h *UserHandler) Logout(c echo.Context) error {
	var input usecase.LogoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}

	if err := h.uc.Logout(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// LogoutAllDevices revokes every active session of the current user.
func (h *UserHandler) LogoutAllDevices(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.LogoutAllDevices(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions revoked"}, "Logout successful")
}

// GetActiveSessions lists the current user's live sessions.
func (h *UserHandler) GetActiveSessions(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessions, err := h.uc.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Active sessions retrieved successfully")
}

// RevokeSession ends one of the current user's sessions by ID.
func (h *UserHandler) RevokeSession(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessionID, err := pathUUID(c, "id")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid session ID")
	}

	if err := h.uc.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session revoked"}, "Session revoked successfully")
}

// GoogleLogin handles initiating the Google Sign-In flow.
func (h *UserHandler) GoogleLogin(c echo.Context) error {
	oauthURL, err := h.uc.GoogleAuthURL(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	// Redirect directly to the Google OAuth page when asked to
	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, oauthURL)
	}

	// Return JSON response with OAuth URL for frontend use
	return response.Success(c, http.StatusOK, map[string]string{
		"oauth_url":    oauthURL,
		"redirect_url": "/oauth/google?redirect=true",
	}, "Google OAuth URL generated successfully")
}

// GoogleCallback handles the Google Sign-In callback. Clients either post an
// ID token (client-side sign-in) or arrive with the code and state of the
// server-side flow.
func (h *UserHandler) GoogleCallback(c echo.Context) error {
	input := usecase.GoogleCallbackInput{
		Code:    c.QueryParam("code"),
		State:   c.QueryParam("state"),
		IDToken: c.FormValue("id_token"),
	}

	if input.Code == "" && input.IDToken == "" {
		if err := c.Bind(&input); err != nil {
			return response.BindingError(c, "INVALID_INPUT", "Invalid Google callback input")
		}
	}

	if input.Code == "" && input.IDToken == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Either an ID token or an authorization code is required")
	}

	if input.GuestToken == "" {
		input.GuestToken = guestToken(c)
	}

	output, err := h.uc.GoogleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Google OAuth authentication successful")
}

// LinkGoogleAccount attaches a Google identity to the current user.
func (h *UserHandler) LinkGoogleAccount(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.Bind(&input); err != nil || input.IDToken == "" {
		return response.BindingError(c, "INVALID_INPUT", "ID token is required")
	}

	if err := h.uc.LinkGoogleAccount(c.Request().Context(), userID, input.IDToken); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Google account linked"}, "Google account linked successfully")
}

// UnlinkGoogleAccount detaches the Google identity from the current user.
func (h *UserHandler) UnlinkGoogleAccount(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.UnlinkGoogleAccount(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Google account unlinked"}, "Google account unlinked successfully")
}

// RequestPasswordReset emails a reset link to the account, answering
// identically whether or not the address exists.
func (h *UserHandler) RequestPasswordReset(c echo.Context) error {
	var input usecase.RequestPasswordResetInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}

	if err := h.uc.RequestPasswordReset(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK,
		map[string]string{"message": "If the account exists, a reset link has been sent"},
		"Password reset requested")
}

// ConfirmPasswordReset sets a new password using an emailed reset token.
func (h *UserHandler) ConfirmPasswordReset(c echo.Context) error {
	var input usecase.ConfirmPasswordResetInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}

	if err := h.uc.ConfirmPasswordReset(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password has been reset"}, "Password reset successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
