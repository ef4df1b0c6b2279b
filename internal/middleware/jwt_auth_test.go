package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/inkwell-social/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID uint, lifetime time.Duration) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret()))
	require.NoError(t, err)
	return signed
}

func runWithAuth(authHeader string, mw echo.MiddlewareFunc) (uint, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID uint
	handler := mw(func(c echo.Context) error {
		if claims, ok := c.Get("user").(*models.JwtCustomClaims); ok {
			gotUserID = claims.UserID
		}
		return c.NoContent(http.StatusOK)
	})
	return gotUserID, handler(c)
}

func TestParseTokenRoundTrip(t *testing.T) {
	claims, err := ParseToken(signToken(t, 42, time.Hour))
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestParseTokenExpired(t *testing.T) {
	_, err := ParseToken(signToken(t, 42, -time.Hour))
	assert.Error(t, err)
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	userID, err := runWithAuth("Bearer "+signToken(t, 42, time.Hour), JWTAuthMiddleware())
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	_, err := runWithAuth("", JWTAuthMiddleware())
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthMiddlewareMalformedToken(t *testing.T) {
	_, err := runWithAuth("Bearer not-a-token", JWTAuthMiddleware())
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestLenientMiddlewarePassesWithoutToken(t *testing.T) {
	userID, err := runWithAuth("", LenientJWTAuthMiddleware())
	require.NoError(t, err)
	assert.Equal(t, uint(0), userID)
}

func TestLenientMiddlewarePassesWithBadToken(t *testing.T) {
	userID, err := runWithAuth("Bearer stale-or-garbage", LenientJWTAuthMiddleware())
	require.NoError(t, err)
	assert.Equal(t, uint(0), userID)
}

func TestLenientMiddlewareSetsClaimsWhenValid(t *testing.T) {
	userID, err := runWithAuth("Bearer "+signToken(t, 42, time.Hour), LenientJWTAuthMiddleware())
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}
