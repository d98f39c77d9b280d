package handler

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/skillOfill/razorpay-backend/internal/config"
	"github.com/skillOfill/razorpay-backend/internal/database"
	"github.com/skillOfill/razorpay-backend/internal/model"
	"github.com/skillOfill/razorpay-backend/internal/service"
)

// PaymentProvider is the payment-API surface the handlers need; the concrete
// implementation is service.RazorpayClient.
type PaymentProvider interface {
	Configured() bool
	FetchPayment(ctx context.Context, paymentID string) (*service.Payment, error)
	CreatePaymentLink(ctx context.Context, email string) (string, error)
}

// Notifier delivers an issued key to the purchaser. Failure is observed, not
// retried.
type Notifier interface {
	SendLicense(to, licenseKey string) bool
}

// AuditSink records issued licenses somewhere outside the database.
type AuditSink interface {
	AppendLicense(lic *model.LicenseKey) error
}

// Handler carries every collaborator the HTTP layer touches. All of them are
// injected; nothing here reads the environment or global state.
type Handler struct {
	cfg      *config.Config
	store    database.Store
	provider PaymentProvider
	mailer   Notifier
	audit    AuditSink
	log      *slog.Logger
	validate *validator.Validate
}

func New(cfg *config.Config, store database.Store, provider PaymentProvider, mailer Notifier, audit AuditSink, log *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		store:    store,
		provider: provider,
		mailer:   mailer,
		audit:    audit,
		log:      log,
		validate: validator.New(),
	}
}

// Register mounts every route on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Post("/webhook/razorpay", h.HandleRazorpayWebhook)
	app.Get("/api/validate", h.HandleValidateKey)
	app.Get("/api/validate-by-email", h.HandleValidateByEmail)
	app.Post("/api/create-payment-link", h.HandleCreatePaymentLink)
	app.Get("/thank-you", h.HandleThankYou)
	app.Get("/success", h.HandleThankYou)
	app.Get("/callback", h.HandleThankYou)
	app.Get("/health", h.HandleHealth)
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
