package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Method and Path alias the request buffer, which fasthttp reuses.
		entry := log.WithFields(logrus.Fields{
			"method":   utils.CopyString(c.Method()),
			"path":     utils.CopyString(c.Path()),
			"status":   status,
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.IP(),
			"user_id":  c.Locals("user_id"),
		})
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Request processed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Request processed")
		default:
			entry.Info("Request processed")
		}
		return err
	}
}
