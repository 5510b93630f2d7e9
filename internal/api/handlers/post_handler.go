package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/flowsocial/internal/service"
)

type PostHandler struct {
	s service.PostService
}

func NewPostHandler(service service.PostService) *PostHandler {
	return &PostHandler{s: service}
}

// GeneratePost returns as soon as the caption is ready; the image is
// rendered in the background and the post moves from generating to ready.
func (h *PostHandler) GeneratePost(c *fiber.Ctx) error {
	req, err := parseGenerateRequest(c)
	if err != nil {
		return validationError(c, "Invalid request body")
	}

	post, err := h.s.Generate(c.UserContext(), GetUserID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	if postID != 0 {
		post, err := h.s.PostInfo(c.UserContext(), int64(postID), userID)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(post)
	}

	posts, err := h.s.List(c.UserContext(), userID, int64(c.QueryInt("brand_id", 0)))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *PostHandler) RemovePost(c *fiber.Ctx) error {
	userID := GetUserID(c)
	postID := c.QueryInt("id", 0)

	if err := h.s.Remove(c.UserContext(), userID, int64(postID)); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
