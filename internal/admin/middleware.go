package admin

import (
	"backend-kayesworld/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

// Only gates a route to admin_users members. Runs after the JWT
// middleware has stored user_id; anything else is a 403.
func Only(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if !svc.IsAdmin(c.Context(), userID) {
			return apperr.New(apperr.Forbidden, "admin access required")
		}
		return c.Next()
	}
}
