package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/skillOfill/razorpay-backend/internal/config"
	"github.com/skillOfill/razorpay-backend/internal/database"
	"github.com/skillOfill/razorpay-backend/internal/handler"
	"github.com/skillOfill/razorpay-backend/internal/service"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	if cfg.Razorpay.WebhookSecret == "" {
		log.Warn("webhook secret not set; every webhook delivery will be rejected")
	}

	store, err := database.Open(cfg.Database)
	if err != nil {
		log.Error("database error", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	razorpay := service.NewRazorpayClient(cfg.Razorpay, cfg.Payment, log)
	mailer := service.NewMailer(cfg.Mail, cfg.AppURL, log)

	var audit handler.AuditSink
	sheetSync, err := service.NewSheetSync(cfg.Sheets, log)
	if err != nil {
		// Audit sync is an enhancement; a broken sheet config should not
		// keep licenses from being issued.
		log.Error("sheet sync disabled", "error", err)
	} else if sheetSync != nil {
		audit = sheetSync
	}

	h := handler.New(cfg, store, razorpay, mailer, audit, log)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		},
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	h.Register(app)

	log.Info("license server listening", "port", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
