package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/devanshhooda/learn-live-server/internal/token"
)

// Locals keys set by RequireAuth.
const (
	LocalsClaims = "claims"
	LocalsPhone  = "phone"
)

// RequireAuth is the access-control boundary for every protected route. It
// extracts the bearer token, verifies it, and short-circuits before any
// business logic runs.
func RequireAuth(tokens *token.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Token is missing !",
			})
		}

		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Invalid authorization header !",
			})
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Invalid token !",
			})
		}

		c.Locals(LocalsClaims, claims)
		c.Locals(LocalsPhone, claims.Phone)
		return c.Next()
	}
}
