package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func newServer() *echo.Echo {
	e := echo.New()
	e.Use(RequestLogger())
	admin := e.Group("/admin", JWT(secret), AdminGuard)
	admin.GET("/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id")})
	})
	e.GET("/ops", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, JWT(secret), RequireRoles("admin", "operator"))
	return e
}

func call(e *echo.Echo, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAndAdminGuard(t *testing.T) {
	e := newServer()

	admin, err := SignToken(secret, "u-1", "admin", time.Hour)
	require.NoError(t, err)
	rec := call(e, "/admin/ping", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":"u-1"}`, rec.Body.String())

	viewer, _ := SignToken(secret, "u-2", "viewer", time.Hour)
	assert.Equal(t, http.StatusForbidden, call(e, "/admin/ping", viewer).Code)

	expired, _ := SignToken(secret, "u-1", "admin", -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/admin/ping", expired).Code)

	forged, _ := SignToken([]byte("other"), "u-1", "admin", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/admin/ping", forged).Code)

	assert.Equal(t, http.StatusUnauthorized, call(e, "/admin/ping", "").Code)

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u-1", "role": "admin"}).SignedString(secret)
	assert.Equal(t, http.StatusUnauthorized, call(e, "/admin/ping", noExp).Code)
}

func TestRequireRoles(t *testing.T) {
	e := newServer()

	operator, _ := SignToken(secret, "u-3", "operator", time.Hour)
	assert.Equal(t, http.StatusNoContent, call(e, "/ops", operator).Code)

	viewer, _ := SignToken(secret, "u-2", "viewer", time.Hour)
	rec := call(e, "/ops", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"access denied"}`, rec.Body.String())

	noRole, _ := SignToken(secret, "u-4", "", time.Hour)
	rec = call(e, "/ops", noRole)
	assert.JSONEq(t, `{"error":"role missing"}`, rec.Body.String())
}
