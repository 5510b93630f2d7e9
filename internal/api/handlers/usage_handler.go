package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/flowsocial/internal/service"
)

type UsageHandler struct {
	s service.UsageService
}

func NewUsageHandler(service service.UsageService) *UsageHandler {
	return &UsageHandler{s: service}
}

func (h *UsageHandler) GetUsage(c *fiber.Ctx) error {
	info, err := h.s.GetUsageInfo(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(info)
}
