package handler

import (
	"go-papelaria-api/internal/apperr"
	"go-papelaria-api/internal/saga"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// failures is embedded into mutation responses so partial writes stay visible
// to the client.
type failures struct {
	Failures []saga.Failure `json:"failures,omitempty"`
}

func withFailures(r saga.Report) failures {
	return failures{Failures: r.Failures}
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperr.HTTPStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

// currentUser reads the tenant set by RequireAuth.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Unauthorized("Token inválido")
	}
	return id, nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("id inválido")
	}
	return id, nil
}

// scope resolves the caller and, when withID is set, the :id route param.
func scope(c *fiber.Ctx, withID bool) (userID, id uuid.UUID, err error) {
	if userID, err = currentUser(c); err != nil {
		return
	}
	if withID {
		id, err = paramID(c)
	}
	return
}

func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("Invalid JSON")
	}
	return nil
}
