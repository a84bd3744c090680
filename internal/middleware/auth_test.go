package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devanshhooda/learn-live-server/internal/token"
)

func newProtectedApp(t *testing.T, tokens *token.Manager) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Get("/protected", RequireAuth(tokens), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": true,
			"phone":  c.Locals(LocalsPhone),
		})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestRequireAuth_MissingToken(t *testing.T) {
	tokens := token.NewManager("test-secret", 60)
	app := newProtectedApp(t, tokens)

	resp, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Token is missing !", body["message"])
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	tokens := token.NewManager("test-secret", 60)
	app := newProtectedApp(t, tokens)

	resp, body := doRequest(t, app, "garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["status"])
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", 60)
	other := token.NewManager("other-secret", 60)
	app := newProtectedApp(t, tokens)

	tok, err := other.Issue("+15551234567")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token !", body["message"])
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", 60)
	app := newProtectedApp(t, tokens)

	tok, err := tokens.Issue("+15551234567")
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "+15551234567", body["phone"])
}
