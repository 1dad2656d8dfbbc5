package admin

import (
	"strings"

	"backend-kayesworld/internal/activity"
	"backend-kayesworld/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

type approveUserRequest struct {
	UserID       string `json:"user_id"`
	Relationship string `json:"relationship"`
}

type logActivityRequest struct {
	Action     string         `json:"action"`
	EntityType *string        `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Metadata   map[string]any `json:"metadata"`
}

func RegisterRoutes(r fiber.Router, svc *Service, act *activity.Service, authMiddleware, optionalAuth fiber.Handler) {
	guard := Only(svc)

	r.Post("/stats", authMiddleware, guard, func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(stats)
	})

	r.Post("/approve-user", authMiddleware, guard, func(c *fiber.Ctx) error {
		var req approveUserRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		adminID, _ := c.Locals("user_id").(string)
		if err := svc.ApproveUser(c.Context(), adminID, req.UserID, req.Relationship); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true})
	})

	r.Post("/log-activity", optionalAuth, func(c *fiber.Ctx) error {
		var req logActivityRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		if strings.TrimSpace(req.Action) == "" {
			return apperr.New(apperr.Validation, "action is required")
		}

		entry := activity.Entry{
			Action:     req.Action,
			EntityType: req.EntityType,
			EntityID:   req.EntityID,
			Metadata:   req.Metadata,
			IPAddress:  clientIP(c),
			UserAgent:  c.Get("User-Agent"),
		}
		if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
			entry.UserID = &userID
		}

		id, err := act.Log(c.Context(), entry)
		if err != nil {
			return apperr.Wrap(apperr.WriteFailed, "failed to log activity", err)
		}
		return c.JSON(fiber.Map{"success": true, "log_id": id})
	})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if real := c.Get("X-Real-IP"); real != "" {
		return real
	}
	return "unknown"
}
