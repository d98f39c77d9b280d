package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/skillOfill/razorpay-backend/internal/config"
)

const sendgridURL = "https://api.sendgrid.com/v3/mail/send"

// Mailer delivers license keys to purchasers. Transport is chosen once at
// construction: SendGrid's HTTP API when a key is configured, otherwise SMTP,
// otherwise nothing. Delivery is best effort; the caller records the outcome
// and the webhook succeeds either way.
type Mailer struct {
	cfg         config.MailConfig
	appURL      string
	sendgridURL string
	http        *http.Client
	log         *slog.Logger
}

func NewMailer(cfg config.MailConfig, appURL string, log *slog.Logger) *Mailer {
	return &Mailer{
		cfg:         cfg,
		appURL:      appURL,
		sendgridURL: sendgridURL,
		http:        &http.Client{Timeout: 10 * time.Second},
		log:         log,
	}
}

// SendLicense emails the key and reports whether delivery succeeded.
func (m *Mailer) SendLicense(to, licenseKey string) bool {
	subject := "Your SQL Humanizer License Key"
	plain := fmt.Sprintf(`Thank you for your purchase!

Your SQL Humanizer Pro license key is:

  %s

Enter this key in the License field in %s to unlock unlimited translations.

If you have any questions, reply to this email.
`, licenseKey, m.appURL)
	html := fmt.Sprintf(`<p>Thank you for your purchase!</p>
<p>Your <strong>SQL Humanizer Pro</strong> license key is:</p>
<p style="font-size:1.2em; font-family:monospace; background:#f1f5f9; padding:0.5rem 1rem; border-radius:6px;">%s</p>
<p>Enter this key in the License field in %s to unlock unlimited translations.</p>
<p>If you have any questions, reply to this email.</p>`, licenseKey, m.appURL)

	switch {
	case m.cfg.SendGridKey != "":
		return m.sendGrid(to, subject, plain, html)
	case m.cfg.SMTPHost != "" && m.cfg.SMTPUser != "" && m.cfg.SMTPPassword != "":
		return m.sendSMTP(to, subject, plain, html)
	default:
		m.log.Warn("no SMTP or SendGrid configured; license key not emailed (still saved)",
			"to", to, "key_prefix", keyPrefixForLog(licenseKey))
		return false
	}
}

func (m *Mailer) sendSMTP(to, subject, plain, html string) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plain)
	msg.AddAlternative("text/html", html)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := d.DialAndSend(msg); err != nil {
		m.log.Error("SMTP send failed", "error", err, "to", to)
		return false
	}
	return true
}

func (m *Mailer) sendGrid(to, subject, plain, html string) bool {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": to}}},
		},
		"from":    map[string]string{"email": m.cfg.From, "name": m.cfg.FromName},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": plain},
			{"type": "text/html", "value": html},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		m.log.Error("SendGrid payload marshal failed", "error", err)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, m.sendgridURL, bytes.NewReader(body))
	if err != nil {
		m.log.Error("SendGrid request build failed", "error", err)
		return false
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.SendGridKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		m.log.Error("SendGrid send failed", "error", err, "to", to)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.log.Error("SendGrid send rejected", "status", resp.StatusCode, "to", to)
		return false
	}
	return true
}

// keyPrefixForLog truncates a license key for log lines; full keys stay out
// of logs.
func keyPrefixForLog(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
