package feed

import (
	"backend-kayesworld/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Content   string   `json:"content"`
	Audience  string   `json:"audience"`
	MediaURLs []string `json:"media_urls"`
}

type commentRequest struct {
	Content string `json:"content"`
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		posts, err := svc.Feed(c.Context(), viewerID)
		if err != nil {
			return err
		}
		return c.JSON(posts)
	})

	r.Post("/posts", authMiddleware, func(c *fiber.Ctx) error {
		var req createPostRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		viewerID, _ := c.Locals("user_id").(string)
		post, err := svc.CreatePost(c.Context(), viewerID, req.Content, req.Audience, req.MediaURLs)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	r.Delete("/posts/:id", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		if err := svc.DeletePost(c.Context(), viewerID, c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/posts/:id/reactions", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		reacted, err := svc.ToggleReaction(c.Context(), viewerID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"reacted": reacted})
	})

	r.Get("/posts/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		comments, err := svc.Comments(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(comments)
	})

	r.Post("/posts/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		var req commentRequest
		if err := c.BodyParser(&req); err != nil {
			return apperr.New(apperr.Validation, "invalid payload")
		}
		viewerID, _ := c.Locals("user_id").(string)
		comment, err := svc.AddComment(c.Context(), viewerID, c.Params("id"), req.Content)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	r.Delete("/comments/:id", authMiddleware, func(c *fiber.Ctx) error {
		viewerID, _ := c.Locals("user_id").(string)
		if err := svc.DeleteComment(c.Context(), viewerID, c.Params("id")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
