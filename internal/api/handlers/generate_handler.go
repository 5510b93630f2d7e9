package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/flowsocial/internal/service"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

type GenerateHandler struct {
	s service.GenerationService
}

func NewGenerateHandler(service service.GenerationService) *GenerateHandler {
	return &GenerateHandler{s: service}
}

func parseGenerateRequest(c *fiber.Ctx) (*transfer.GenerateRequest, error) {
	var req transfer.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *GenerateHandler) run(c *fiber.Ctx, fn func(ctx context.Context, userID int64, req *transfer.GenerateRequest) (any, error)) error {
	req, err := parseGenerateRequest(c)
	if err != nil {
		return validationError(c, "Invalid request body")
	}

	res, err := fn(c.UserContext(), GetUserID(c), req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *GenerateHandler) Caption(c *fiber.Ctx) error {
	return h.run(c, func(ctx context.Context, userID int64, req *transfer.GenerateRequest) (any, error) {
		return h.s.Caption(ctx, userID, req)
	})
}

func (h *GenerateHandler) CaptionVariants(c *fiber.Ctx) error {
	return h.run(c, func(ctx context.Context, userID int64, req *transfer.GenerateRequest) (any, error) {
		return h.s.CaptionVariants(ctx, userID, req)
	})
}

func (h *GenerateHandler) Image(c *fiber.Ctx) error {
	return h.run(c, func(ctx context.Context, userID int64, req *transfer.GenerateRequest) (any, error) {
		return h.s.Image(ctx, userID, req)
	})
}
