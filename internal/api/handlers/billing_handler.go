package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/flowsocial/configs"
	"github.com/maheshrc27/flowsocial/internal/service"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

type BillingHandler struct {
	s   service.BillingService
	cfg config.Config
}

func NewBillingHandler(cfg config.Config, service service.BillingService) *BillingHandler {
	return &BillingHandler{s: service, cfg: cfg}
}

func (h *BillingHandler) Checkout(c *fiber.Ctx) error {
	var req transfer.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return validationError(c, "Invalid request body")
	}

	origin := h.cfg.FrontendURL
	if origin == "" {
		origin = c.BaseURL()
	}

	url, err := h.s.CreateCheckout(c.UserContext(), GetUserID(c), req.Plan, origin)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(transfer.CheckoutResponse{URL: url})
}

// StripeWebhook acknowledges every verified event, even when applying it
// failed, so Stripe does not keep redelivering it.
func (h *BillingHandler) StripeWebhook(c *fiber.Ctx) error {
	err := h.s.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature"))
	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
	case errors.Is(err, service.ErrInvalidSignature):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook signature",
		})
	default:
		return errorResponse(c, err)
	}
}
