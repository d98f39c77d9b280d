package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HandleValidateKey answers the client application's "is this key real"
// lookup. Intentionally public, never errors beyond a missing parameter.
func (h *Handler) HandleValidateKey(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Query("key"))
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false})
	}

	valid, err := h.store.IsValidKey(c.Context(), key)
	if err != nil {
		return h.storageError(c, err)
	}
	return c.JSON(fiber.Map{"valid": valid})
}

// HandleValidateByEmail answers "has this identity already paid",
// independent of which key was issued. Used for auto-unlock after login.
func (h *Handler) HandleValidateByEmail(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false})
	}

	valid, err := h.store.EmailHasLicense(c.Context(), email)
	if err != nil {
		return h.storageError(c, err)
	}

	resp := fiber.Map{"valid": valid}
	if c.Query("debug") == "1" {
		resp["checked_email"] = strings.ToLower(email)
	}
	return c.JSON(resp)
}
