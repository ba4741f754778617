package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalbooking/internal/auth"
	"legalbooking/internal/model"
)

func newTestServer(secret string) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWT([]byte(secret)))
	g.GET("/me", func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.String(http.StatusOK, claims.Email)
	})
	g.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireRole(model.RoleAdmin))
	return e
}

func call(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	e := newTestServer("test-secret")

	token, err := jwtService.GenerateAccessToken(1, "juan@example.com", model.RoleClient)
	require.NoError(t, err)

	rec := call(e, "/me", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "juan@example.com", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(e, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/me", "not-a-token").Code)

	other := auth.NewJWTService("other-secret", time.Hour, time.Hour)
	forged, err := other.GenerateAccessToken(1, "juan@example.com", model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/me", forged).Code)

	_, refresh, err := jwtService.GenerateRefreshToken(1, "juan@example.com", model.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/me", refresh).Code)
}

func TestRequireRole(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	e := newTestServer("test-secret")

	client, err := jwtService.GenerateAccessToken(1, "juan@example.com", model.RoleClient)
	require.NoError(t, err)
	admin, err := jwtService.GenerateAccessToken(2, "ana@example.com", model.RoleAdmin)
	require.NoError(t, err)

	rec := call(e, "/admin", client)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")

	assert.Equal(t, http.StatusNoContent, call(e, "/admin", admin).Code)
}
