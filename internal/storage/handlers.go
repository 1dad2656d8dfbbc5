package storage

import (
	"backend-kayesworld/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

type uploadRequest struct {
	FileName string `json:"file_name"`
	Kind     string `json:"kind"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/upload", authMiddleware, func(c *fiber.Ctx) error {
		var req uploadRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		obj, err := svc.SaveObject(c.Context(), userID, req.FileName, req.Kind)
		if err != nil {
			return err
		}
		return c.JSON(obj)
	})
}
