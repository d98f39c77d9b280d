package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is built once in main and handed to each constructor. Nothing in
// this repository reads the environment after startup.
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Razorpay RazorpayConfig `envconfig:"RAZORPAY"`
	Payment  PaymentConfig  `envconfig:"PAYMENT"`
	Database DatabaseConfig `envconfig:"DATABASE"`
	Mail     MailConfig     `envconfig:"MAIL"`
	Sheets   SheetsConfig   `envconfig:"SHEETS"`
	AppURL   string         `envconfig:"APP_URL" default:"the app"`
}

type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"5000"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
}

type RazorpayConfig struct {
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	KeyID         string `envconfig:"KEY_ID"`
	KeySecret     string `envconfig:"KEY_SECRET"`
}

type PaymentConfig struct {
	AmountPaise int    `envconfig:"AMOUNT_PAISE" default:"49900"`
	Currency    string `envconfig:"CURRENCY" default:"INR"`
	Description string `envconfig:"DESCRIPTION" default:"SQL Humanizer Pro — Unlimited translations"`
}

type DatabaseConfig struct {
	// URL selects the backend: postgres:// or postgresql:// opens Postgres,
	// anything else is ignored and Path is opened as a sqlite file.
	URL  string `envconfig:"URL"`
	Path string `envconfig:"PATH" default:"data/license_keys.db"`
}

type MailConfig struct {
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SendGridKey  string `envconfig:"SENDGRID_API_KEY"`
	From         string `envconfig:"FROM"`
	FromName     string `envconfig:"FROM_NAME" default:"SQL Humanizer"`
}

type SheetsConfig struct {
	Enabled         bool   `envconfig:"ENABLED" default:"false"`
	CredentialsPath string `envconfig:"CREDENTIALS_PATH"`
	SpreadsheetID   string `envconfig:"SPREADSHEET_ID"`
	SheetName       string `envconfig:"SHEET_NAME" default:"Licenses"`
}

// Load reads configuration from LICENSE_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("LICENSE", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	cfg.Razorpay.WebhookSecret = strings.TrimSpace(cfg.Razorpay.WebhookSecret)
	if cfg.Mail.From == "" {
		if cfg.Mail.SMTPUser != "" {
			cfg.Mail.From = cfg.Mail.SMTPUser
		} else {
			cfg.Mail.From = "noreply@example.com"
		}
	}
	return &cfg, nil
}

// RazorpayConfigured reports whether API credentials are present. The
// payment-link endpoint answers 503 when they are not.
func (c *Config) RazorpayConfigured() bool {
	return c.Razorpay.KeyID != "" && c.Razorpay.KeySecret != ""
}
