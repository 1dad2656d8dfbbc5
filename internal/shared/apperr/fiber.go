package apperr

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler translates taxonomy errors into JSON responses. Wrapped
// store errors are logged server-side; their detail reaches the response
// only outside production.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := Status(err)
		var e *Error
		if errors.As(err, &e) && e.Err != nil {
			log.Printf("%s: %v", e.Message, e.Err)
			if !production {
				return c.Status(status).JSON(fiber.Map{"error": e.Message, "detail": e.Err.Error()})
			}
		}
		if status == fiber.StatusInternalServerError && KindOf(err) == Internal {
			log.Printf("unexpected error: %v", err)
			return c.Status(status).JSON(fiber.Map{"error": "something went wrong"})
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}
