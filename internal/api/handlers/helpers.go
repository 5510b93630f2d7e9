package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/flowsocial/internal/service"
	"github.com/maheshrc27/flowsocial/internal/transfer"
)

const (
	CodeLimitReached      = "LIMIT_REACHED"
	CodeBrandLimitReached = "BRAND_LIMIT_REACHED"
	CodeValidation        = "VALIDATION_ERROR"
	CodeUpstream          = "UPSTREAM_FAILURE"
	CodeNotFound          = "NOT_FOUND"
	CodeBillingDisabled   = "BILLING_DISABLED"
	CodeUsageUnavailable  = "USAGE_UNAVAILABLE"
)

func GetUserID(c *fiber.Ctx) int64 {
	raw, _ := c.Locals("user_id").(string)
	userID, _ := strconv.ParseInt(raw, 10, 64)
	return userID
}

func validationError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
		"code":  CodeValidation,
	})
}

// errorResponse converts service errors into the JSON error contract.
func errorResponse(c *fiber.Ctx, err error) error {
	var limitErr *service.LimitReachedError
	if errors.As(err, &limitErr) {
		check := limitErr.Check
		if check == nil {
			check = &transfer.UsageCheck{}
		}
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":     limitErr.Error(),
			"code":      CodeLimitReached,
			"plan":      check.Plan,
			"used":      check.Used,
			"limit":     check.Limit,
			"remaining": check.Remaining,
		})
	}

	switch {
	case errors.Is(err, service.ErrBrandLimitReached):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error": "Brand limit reached for your plan. Please upgrade to add more brands.",
			"code":  CodeBrandLimitReached,
		})
	case errors.Is(err, service.ErrEmptyPrompt),
		errors.Is(err, service.ErrBrandRequired),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrApiKeyLimit):
		return validationError(c, err.Error())
	case errors.Is(err, service.ErrBrandNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrApiKeyNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
			"code":  CodeNotFound,
		})
	case errors.Is(err, service.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Generation failed. Please try again.",
			"code":  CodeUpstream,
		})
	case errors.Is(err, service.ErrUsageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Could not verify your monthly usage right now. Please try again in a minute.",
			"code":  CodeUsageUnavailable,
		})
	case errors.Is(err, service.ErrBillingDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": err.Error(),
			"code":  CodeBillingDisabled,
		})
	}

	slog.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "something went wrong",
	})
}
