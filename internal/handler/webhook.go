package handler

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillOfill/razorpay-backend/internal/database"
	"github.com/skillOfill/razorpay-backend/internal/license"
	"github.com/skillOfill/razorpay-backend/internal/model"
	"github.com/skillOfill/razorpay-backend/internal/webhook"
)

const signatureHeader = "X-Razorpay-Signature"

// HandleRazorpayWebhook receives payment events: verify signature over the
// raw body, normalize the event, issue and store a key, email it. Redelivery
// of a payment id that already has a key is acknowledged with that key.
func (h *Handler) HandleRazorpayWebhook(c *fiber.Ctx) error {
	raw := c.Body()
	signature := c.Get(signatureHeader)

	if !webhook.VerifySignature(raw, signature, h.cfg.Razorpay.WebhookSecret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Invalid signature",
		})
	}

	var env webhook.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Invalid JSON",
		})
	}

	purchase, err := webhook.Interpret(env.Event, env.Payload)
	if errors.Is(err, webhook.ErrIgnored) {
		return c.JSON(fiber.Map{"ok": true, "message": "Event ignored"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Invalid JSON",
		})
	}

	// Some captures arrive without an email; try recovering it from the
	// payment itself. Best effort, failure just leaves the email empty.
	if purchase.Email == "" && purchase.PaymentID != "" && h.provider.Configured() {
		if p, err := h.provider.FetchPayment(c.Context(), purchase.PaymentID); err != nil {
			h.log.Warn("payment fetch for email recovery failed",
				"payment_id", purchase.PaymentID, "error", err)
		} else {
			purchase.Email = p.Email
			if purchase.OrderID == "" {
				purchase.OrderID = p.OrderID
			}
		}
	}

	if purchase.Email == "" {
		h.log.Warn("payment event missing email",
			"event", env.Event, "payment_id", purchase.PaymentID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Missing email",
		})
	}

	// Razorpay delivers at least once; a payment id that already has a key
	// means this event was processed before.
	if purchase.PaymentID != "" {
		existing, err := h.store.FindByPayment(c.Context(), purchase.PaymentID)
		if err != nil {
			return h.storageError(c, err)
		}
		if existing != "" {
			h.log.Info("duplicate webhook delivery",
				"payment_id", purchase.PaymentID, "key_prefix", keyPrefix(existing))
			return c.JSON(fiber.Map{
				"ok":          true,
				"license_key": existing,
				"email_sent":  false,
			})
		}
	}

	key := license.Generate()
	err = h.store.Add(c.Context(), key, purchase.Email, purchase.OrderID, purchase.PaymentID)
	if errors.Is(err, database.ErrDuplicatePayment) {
		// Lost a race with a concurrent delivery of the same payment.
		existing, lookupErr := h.store.FindByPayment(c.Context(), purchase.PaymentID)
		if lookupErr != nil || existing == "" {
			return h.storageError(c, err)
		}
		return c.JSON(fiber.Map{
			"ok":          true,
			"license_key": existing,
			"email_sent":  false,
		})
	}
	if err != nil {
		return h.storageError(c, err)
	}

	sent := h.mailer.SendLicense(purchase.Email, key)

	if h.audit != nil {
		rec := &model.LicenseKey{
			LicenseKey: key,
			Email:      purchase.Email,
			OrderID:    optional(purchase.OrderID),
			PaymentID:  optional(purchase.PaymentID),
			CreatedAt:  time.Now(),
		}
		go h.audit.AppendLicense(rec)
	}

	h.log.Info("license created",
		"email", purchase.Email, "key_prefix", keyPrefix(key), "email_sent", sent)

	return c.JSON(fiber.Map{
		"ok":          true,
		"license_key": key,
		"email_sent":  sent,
	})
}

func (h *Handler) storageError(c *fiber.Ctx, err error) error {
	h.log.Error("storage failure", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":    false,
		"error": "Storage error",
	})
}

func keyPrefix(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12] + "..."
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
