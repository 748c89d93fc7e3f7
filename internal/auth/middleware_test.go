package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedEcho(t *testing.T, svc *JWTService, mw echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.JSON(http.StatusOK, map[string]string{"identity": "anonymous"})
		}
		return c.JSON(http.StatusOK, map[string]string{"identity": claims.Username})
	}, mw)
	return e
}

func TestRequired_MissingToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Required(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequired_InvalidToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Required(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequired_ValidTokenAttachesClaims(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Required(svc))

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"alice"}`, rec.Body.String())
}

func TestOptional_MissingTokenProceedsAnonymously(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Optional(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"anonymous"}`, rec.Body.String())
}

func TestOptional_InvalidTokenProceedsAnonymously(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Optional(svc))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"anonymous"}`, rec.Body.String())
}

func TestOptional_ValidTokenAttachesClaims(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)
	e := newProtectedEcho(t, svc, Optional(svc))

	token, err := svc.Issue(testUser())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity":"alice"}`, rec.Body.String())
}
