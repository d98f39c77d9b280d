package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 49900, cfg.Payment.AmountPaise)
	assert.Equal(t, "INR", cfg.Payment.Currency)
	assert.Equal(t, "data/license_keys.db", cfg.Database.Path)
	assert.Equal(t, "noreply@example.com", cfg.Mail.From)
	assert.False(t, cfg.Sheets.Enabled)
	assert.False(t, cfg.RazorpayConfigured())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LICENSE_SERVER_PORT", "8080")
	t.Setenv("LICENSE_RAZORPAY_WEBHOOK_SECRET", "  whsec_abc  ")
	t.Setenv("LICENSE_RAZORPAY_KEY_ID", "rzp_live_x")
	t.Setenv("LICENSE_RAZORPAY_KEY_SECRET", "s3cret")
	t.Setenv("LICENSE_DATABASE_URL", "postgres://u:p@host/db")
	t.Setenv("LICENSE_MAIL_SMTP_USER", "mailer@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "whsec_abc", cfg.Razorpay.WebhookSecret)
	assert.True(t, cfg.RazorpayConfigured())
	assert.Equal(t, "postgres://u:p@host/db", cfg.Database.URL)
	// From defaults to the SMTP user when unset.
	assert.Equal(t, "mailer@example.com", cfg.Mail.From)
}
