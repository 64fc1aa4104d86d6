package middleware

import (
	"strings"

	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// Authenticator verifies an access token.
type Authenticator interface {
	Authenticate(accessToken string) (*jwt.Identity, error)
}

// RequireAuth is middleware that validates the bearer access token and sets
// user info in context
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.Authenticate(BearerToken(c.Get(fiber.HeaderAuthorization)))
		if err != nil {
			return Fail(c, err)
		}

		// Set user info in context for downstream handlers
		c.Locals("user_id", id.ID)
		c.Locals("user_email", id.Email)

		return c.Next()
	}
}

// RequireQueryToken authenticates websocket handshakes, where browsers cannot
// set headers, from the ?token= query parameter.
func RequireQueryToken(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := auth.Authenticate(c.Query("token"))
		if err != nil {
			return Fail(c, err)
		}
		c.Locals("user_id", id.ID)
		c.Locals("user_email", id.Email)
		return c.Next()
	}
}

// BearerToken extracts the token from "Bearer <token>". Anything else yields
// "", which is treated as a missing credential.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// Fail writes err as {"error": message} with its mapped status code.
func Fail(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
