package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newAuthApp(required bool) *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(testSecret, required), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuth_SubjectClaim(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"sub": "9f8c-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	status, body := doRequest(t, newAuthApp(true), token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "9f8c-user", body)
}

func TestAuth_UserIDClaimFallback(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"user_id": float64(42),
	})

	status, body := doRequest(t, newAuthApp(true), token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "42", body)
}

func TestAuth_MissingTokenRequired(t *testing.T) {
	status, body := doRequest(t, newAuthApp(true), "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "UNAUTHORIZED")
}

func TestAuth_MissingTokenOptionalIsGuest(t *testing.T) {
	status, body := doRequest(t, newAuthApp(false), "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "guest", body)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"wrong secret": signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "u"}),
		"expired": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"sub": "u",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}),
		"hs512":   signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "u"}),
		"no user": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"role": "x"}),
		"garbage": "not.a.jwt",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			status, _ := doRequest(t, newAuthApp(false), token)
			assert.Equal(t, fiber.StatusUnauthorized, status)
		})
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	app := newAuthApp(false)
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
