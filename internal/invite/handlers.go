package invite

import (
	"time"

	"backend-kayesworld/internal/shared/apperr"
	"backend-kayesworld/internal/shared/tier"

	"github.com/gofiber/fiber/v2"
)

type createRequest struct {
	Code         string     `json:"code"`
	Relationship string     `json:"relationship"`
	MaxUses      int        `json:"max_uses"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, adminOnly fiber.Handler) {
	r.Post("/", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		var req createRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		rel, err := tier.ParseRelationship(req.Relationship)
		if err != nil {
			return apperr.New(apperr.Validation, "invalid relationship type")
		}
		adminID, _ := c.Locals("user_id").(string)
		code, err := svc.Create(c.Context(), req.Code, rel, req.MaxUses, req.ExpiresAt, adminID)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(code)
	})

	r.Get("/", authMiddleware, adminOnly, func(c *fiber.Ctx) error {
		codes, err := svc.List(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(codes)
	})
}
