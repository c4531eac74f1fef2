package handler

import (
	"log/slog"
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// GuestSessionHandler holds dependencies for guest session handlers.
type GuestSessionHandler struct {
	uc     usecase.GuestSessionUsecase
	logger *slog.Logger
}

// NewGuestSessionHandler is the constructor for GuestSessionHandler, injected by Fx.
func NewGuestSessionHandler(uc usecase.GuestSessionUsecase, logger *slog.Logger) *GuestSessionHandler {
	return &GuestSessionHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateSession mints a fresh guest session token for anonymous shopping.
func (h *GuestSessionHandler) CreateSession(c echo.Context) error {
	output, err := h.uc.CreateSession(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(HeaderXGuestToken, output.Token)

	return response.Success(c, http.StatusCreated, output, "Guest session created successfully")
}
