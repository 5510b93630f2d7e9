package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/flowsocial/internal/service"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

type BrandHandler struct {
	s service.BrandService
}

func NewBrandHandler(service service.BrandService) *BrandHandler {
	return &BrandHandler{s: service}
}

func (h *BrandHandler) CreateBrand(c *fiber.Ctx) error {
	var in transfer.BrandSettings
	if err := c.BodyParser(&in); err != nil {
		return validationError(c, "Invalid request body")
	}

	brand, err := h.s.Create(c.UserContext(), GetUserID(c), &in)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(brand)
}

func (h *BrandHandler) ListBrands(c *fiber.Ctx) error {
	brands, err := h.s.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(brands)
}

func (h *BrandHandler) GetBrand(c *fiber.Ctx) error {
	brandID, err := c.ParamsInt("id")
	if err != nil || brandID <= 0 {
		return validationError(c, "Invalid brand id")
	}

	brand, err := h.s.Get(c.UserContext(), GetUserID(c), int64(brandID))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(brand)
}

func (h *BrandHandler) UpdateBrand(c *fiber.Ctx) error {
	brandID, err := c.ParamsInt("id")
	if err != nil || brandID <= 0 {
		return validationError(c, "Invalid brand id")
	}

	var in transfer.BrandSettings
	if err := c.BodyParser(&in); err != nil {
		return validationError(c, "Invalid request body")
	}

	brand, err := h.s.Update(c.UserContext(), GetUserID(c), int64(brandID), &in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(brand)
}

func (h *BrandHandler) RemoveBrand(c *fiber.Ctx) error {
	brandID, err := c.ParamsInt("id")
	if err != nil || brandID <= 0 {
		return validationError(c, "Invalid brand id")
	}

	if err := h.s.Remove(c.UserContext(), GetUserID(c), int64(brandID)); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
