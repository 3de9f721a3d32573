// Package middleware provides the fiber middleware chain: JWT auth,
// request logging, and prometheus metrics.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mobidic-dev/tripsettle/internal/auth"
)

const (
	// localUserID is the fiber locals key for the authenticated user ID.
	localUserID = "user_id"
	// localDisplayName is the fiber locals key for the authenticated
	// user's display name, the identity string the settlement engine uses.
	localDisplayName = "display_name"
)

// UserID extracts the authenticated user ID from the request context.
// Returns empty string if the request was not authenticated.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

// DisplayName extracts the authenticated user's display name from the
// request context.
func DisplayName(c *fiber.Ctx) string {
	name, _ := c.Locals(localDisplayName).(string)
	return name
}

// RequireAuth returns a middleware that validates the Bearer token and
// stores the user identity in the request locals. Requests without a valid
// token are rejected with 401.
func RequireAuth(jwtManager *auth.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": auth.ErrMissingToken.Error()})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": auth.ErrInvalidToken.Error()})
		}

		claims, err := jwtManager.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": auth.ErrInvalidToken.Error()})
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localDisplayName, claims.DisplayName)

		return c.Next()
	}
}
