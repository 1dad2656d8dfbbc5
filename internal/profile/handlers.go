package profile

import (
	"backend-kayesworld/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/me", authMiddleware, func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		p, err := svc.Get(c.Context(), userID)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Patch("/me", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		p, err := svc.UpdateOwn(c.Context(), userID, req)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})
}
