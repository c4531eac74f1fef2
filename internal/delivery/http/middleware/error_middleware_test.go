package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/delivery/http/response"
	domainerrors "storefront/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec, &body
}

func TestHandleHTTPError_AppError(t *testing.T) {
	rec, body := handleError(t, domainerrors.ErrProductNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, domainerrors.ErrProductNotFound.ErrorCode(), body.Error.Code)
}

func TestHandleHTTPError_WrappedAppError(t *testing.T) {
	wrapped := errors.Wrap(domainerrors.ErrGuestSessionExpired, "merge failed")

	rec, body := handleError(t, wrapped)

	assert.Equal(t, domainerrors.ErrGuestSessionExpired.HTTPCode(), rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, domainerrors.ErrGuestSessionExpired.ErrorCode(), body.Error.Code)
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec, body := handleError(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "HTTP_ERROR", body.Error.Code)
}

func TestHandleHTTPError_UnknownErrorBecomes500(t *testing.T) {
	rec, body := handleError(t, errors.New("pq: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	// The raw error never leaks to the client.
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
