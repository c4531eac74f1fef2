package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokenService struct {
	claims *service.Claims
	err    error
}

func (f *fakeTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	return "access", "refresh", nil
}

func (f *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.claims, nil
}

func (f *fakeTokenService) HashToken(token string) string {
	return token
}

func (f *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return time.Hour
}

func newAuthTestContext(t *testing.T, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	userID := uuid.New()
	m := NewAuthMiddleware(&fakeTokenService{claims: &service.Claims{
		UserID: userID,
		Roles:  []string{"user"},
		Type:   "access",
	}})

	c, rec := newAuthTestContext(t, "Bearer token")

	require.NoError(t, m.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, c.Get(ContextKeyUserID))
	assert.Equal(t, []string{"user"}, c.Get(ContextKeyRoles))
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{})

	c, rec := newAuthTestContext(t, "")

	require.NoError(t, m.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{})

	c, rec := newAuthTestContext(t, "token-without-scheme")

	require.NoError(t, m.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{err: errors.New("expired")})

	c, rec := newAuthTestContext(t, "Bearer bad")

	require.NoError(t, m.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RefreshTokenRejected(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{claims: &service.Claims{
		UserID: uuid.New(),
		Type:   "refresh",
	}})

	c, rec := newAuthTestContext(t, "Bearer refresh-token")

	require.NoError(t, m.Authenticate(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateOptional_AnonymousPassesThrough(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{err: errors.New("should not be called")})

	c, rec := newAuthTestContext(t, "")

	require.NoError(t, m.AuthenticateOptional(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, c.Get(ContextKeyUserID))
}

func TestAuthenticateOptional_PresentedTokenIsValidated(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{err: errors.New("expired")})

	c, rec := newAuthTestContext(t, "Bearer bad")

	require.NoError(t, m.AuthenticateOptional(okHandler)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(&fakeTokenService{})

	t.Run("role present", func(t *testing.T) {
		c, rec := newAuthTestContext(t, "")
		c.Set(ContextKeyRoles, []string{"user", "merchant"})

		require.NoError(t, m.RequireRole("merchant")(okHandler)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("role missing", func(t *testing.T) {
		c, rec := newAuthTestContext(t, "")
		c.Set(ContextKeyRoles, []string{"user"})

		require.NoError(t, m.RequireRole("merchant")(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("roles absent from context", func(t *testing.T) {
		c, rec := newAuthTestContext(t, "")

		require.NoError(t, m.RequireRole("merchant")(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
