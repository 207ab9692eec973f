package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shawnadoherty9/travelogie-sub001/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testAdminKey = "s3cret-admin-key"

func newTestAuth(t *testing.T) (*AuthMiddleware, *JWTService) {
	t.Helper()

	jwtSvc := &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "test-secret",
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminKey), bcrypt.MinCost)
	require.NoError(t, err)

	return &AuthMiddleware{jwtSvc: jwtSvc, adminKeyHash: hash}, jwtSvc
}

func TestJWTService_RoundTrip(t *testing.T) {
	_, jwtSvc := newTestAuth(t)

	token, err := jwtSvc.ToJWT("user-42", shared.RoleAdmin)
	require.NoError(t, err)

	subject, role, err := jwtSvc.VerifyJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
	assert.Equal(t, shared.RoleAdmin, role)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	_, jwtSvc := newTestAuth(t)

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "other-secret"}
	foreign, err := other.ToJWT("user-42", "")
	require.NoError(t, err)

	_, _, err = jwtSvc.VerifyJWTToken(foreign)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = jwtSvc.VerifyJWTToken(signed)
	assert.Error(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-42"},
	})
	signed, err = noExpiry.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, _, err = jwtSvc.VerifyJWTToken(signed)
	assert.Error(t, err)

	disabled := &JWTService{}
	_, _, err = disabled.VerifyJWTToken(foreign)
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenFromHeader(t *testing.T) {
	_, jwtSvc := newTestAuth(t)

	token, err := jwtSvc.ExtractTokenFromHeader("Bearer abc.def ")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = jwtSvc.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)

	_, err = jwtSvc.ExtractTokenFromHeader("")
	assert.Error(t, err)
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	auth, jwtSvc := newTestAuth(t)

	app := NewFiberApp()
	app.Get("/whoami", auth.OptionalAuth(), func(c *fiber.Ctx) error {
		return c.SendString(shared.ResolveIdentifier(c))
	})

	token, err := jwtSvc.ToJWT("user-42", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	req.Header.Set("X-Forwarded-For", "10.1.1.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-42", readBody(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Forwarded-For", "10.1.1.1, 172.16.0.1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "10.1.1.1", readBody(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	auth, jwtSvc := newTestAuth(t)

	app := NewFiberApp()
	app.Get("/admin", auth.OptionalAuth(), auth.RequireAdmin(), func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, nil)
	})

	adminToken, err := jwtSvc.ToJWT("ops", shared.RoleAdmin)
	require.NoError(t, err)
	userToken, err := jwtSvc.ToJWT("user-42", "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		token  string
		key    string
		status int
	}{
		{name: "admin token", token: adminToken, status: http.StatusOK},
		{name: "admin key", key: testAdminKey, status: http.StatusOK},
		{name: "user token", token: userToken, status: http.StatusForbidden},
		{name: "wrong key", key: "guess", status: http.StatusUnauthorized},
		{name: "anonymous", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tc.token)
			}
			if tc.key != "" {
				req.Header.Set(AdminKeyHeader, tc.key)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_NoAdminKeyConfigured(t *testing.T) {
	auth, _ := newTestAuth(t)
	auth.adminKeyHash = nil

	assert.False(t, auth.checkAdminKey(testAdminKey))
}

func TestAuthMiddleware_OptionalAuthWithoutSecret(t *testing.T) {
	auth, jwtSvc := newTestAuth(t)
	token, err := jwtSvc.ToJWT("user-42", shared.RoleAdmin)
	require.NoError(t, err)

	auth.jwtSvc = &JWTService{}

	app := NewFiberApp()
	app.Get("/whoami", auth.OptionalAuth(), func(c *fiber.Ctx) error {
		return c.SendString(shared.ResolveIdentifier(c))
	})
	app.Get("/admin", auth.OptionalAuth(), auth.RequireAdmin(), func(c *fiber.Ctx) error {
		return shared.ResponseOK(c, nil)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	req.Header.Set("X-Forwarded-For", "10.1.1.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "10.1.1.1", readBody(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
