package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skillOfill/razorpay-backend/internal/service"
)

// HandleCreatePaymentLink mints a hosted checkout page for a purchaser email
// (login-first flow: the client knows the email before any payment exists).
func (h *Handler) HandleCreatePaymentLink(c *fiber.Ctx) error {
	if !h.provider.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Razorpay not configured",
		})
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}

	email := strings.TrimSpace(input.Email)
	if err := h.validate.Var(email, "required,email"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Valid email required",
		})
	}

	url, err := h.provider.CreatePaymentLink(c.Context(), email)
	if errors.Is(err, service.ErrNoPaymentURL) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "No payment URL returned",
		})
	}
	if err != nil {
		h.log.Error("create payment link failed", "error", err, "email", email)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Payment link creation failed",
		})
	}

	return c.JSON(fiber.Map{"url": url})
}
