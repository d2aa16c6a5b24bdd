package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop/internal/config"
	"shop/internal/middleware"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newEchoWithGuard(extra ...echo.MiddlewareFunc) *echo.Echo {
	cfg := config.Config{JWTSecret: testSecret}
	e := echo.New()

	mws := append([]echo.MiddlewareFunc{middleware.AuthJWT(cfg)}, extra...)
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"user_id": c.Get(middleware.CtxUserIDKey),
			"role":    c.Get(middleware.CtxUserRoleKey),
		})
	}, mws...)

	return e
}

func doRequest(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT_ValidToken(t *testing.T) {
	e := newEchoWithGuard()
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  int64(42),
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec := doRequest(e, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":42`)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	e := newEchoWithGuard()

	tests := []struct {
		name  string
		authz string
	}{
		{"ヘッダなし", ""},
		{"Bearerではない", "Basic abc"},
		{"トークンが壊れている", "Bearer not.a.jwt"},
		{"署名シークレット違い", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
			"sub": int64(1), "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"期限切れ", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub": int64(1), "role": "user", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
		{"roleなし", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"sub": int64(1), "exp": time.Now().Add(time.Hour).Unix(),
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(e, tt.authz)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"success":false`)
		})
	}
}

func TestAdminRoleGuard(t *testing.T) {
	e := newEchoWithGuard(middleware.AdminRoleGuard())

	adminToken := signToken(t, testSecret, jwt.MapClaims{
		"sub": int64(1), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	userToken := signToken(t, testSecret, jwt.MapClaims{
		"sub": int64(2), "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusOK, doRequest(e, "Bearer "+adminToken).Code)

	rec := doRequest(e, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin only")
}
