package handler

import (
	httpmiddleware "storefront/internal/delivery/http/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXGuestToken carries the opaque guest session token on cart and
// checkout requests from anonymous clients.
const HeaderXGuestToken = "X-Guest-Token"

// currentUserID extracts the authenticated user's ID set by the auth
// middleware. The boolean is false for anonymous requests.
func currentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(httpmiddleware.ContextKeyUserID).(uuid.UUID)

	return userID, ok
}

// guestToken extracts the guest session token header, empty when absent.
func guestToken(c echo.Context) string {
	return c.Request().Header.Get(HeaderXGuestToken)
}

// pathUUID parses a route parameter as a UUID.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}
