package handler

import (
	"fmt"
	"html"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// HandleThankYou is the post-payment landing page. When the order id in the
// redirect resolves to a key the page shows it; otherwise a generic message
// points at the email. Always 200, it is customer-facing.
func (h *Handler) HandleThankYou(c *fiber.Ctx) error {
	orderID := strings.TrimSpace(c.Query("order_id"))

	var key string
	if orderID != "" {
		k, err := h.store.KeyByOrder(c.Context(), orderID)
		if err != nil {
			h.log.Error("order lookup failed", "order_id", orderID, "error", err)
		} else {
			key = k
		}
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if key != "" {
		return c.SendString(fmt.Sprintf(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Thank you</title></head>
<body style="font-family:sans-serif; max-width:480px; margin:2rem auto; padding:1rem;">
<h1>Thank you for your purchase</h1>
<p>Your SQL Humanizer license key is:</p>
<p style="font-size:1.2em; font-family:monospace; background:#f1f5f9; padding:0.75rem; border-radius:8px;"><strong>%s</strong></p>
<p>Enter it in the app sidebar to unlock Pro.</p>
</body></html>`, html.EscapeString(key)))
	}
	return c.SendString(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Thank you</title></head>
<body style="font-family:sans-serif; max-width:480px; margin:2rem auto; padding:1rem;">
<h1>Thank you</h1>
<p>Your payment was successful. We've sent your license key to your email address.</p>
<p>Check your inbox (and spam folder).</p>
</body></html>`)
}
