package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/skillOfill/razorpay-backend/internal/config"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// ErrNoPaymentURL is returned when the provider accepts a payment-link
// request but hands back no usable URL.
var ErrNoPaymentURL = errors.New("no payment URL returned")

// Payment is the subset of a Razorpay payment object this server reads.
type Payment struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	OrderID string `json:"order_id"`
}

// RazorpayClient talks to the Razorpay REST API with basic auth. Both calls
// are synchronous and bounded by the client timeout.
type RazorpayClient struct {
	keyID     string
	keySecret string
	payment   config.PaymentConfig
	baseURL   string
	http      *http.Client
	log       *slog.Logger
}

func NewRazorpayClient(cfg config.RazorpayConfig, payment config.PaymentConfig, log *slog.Logger) *RazorpayClient {
	return &RazorpayClient{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		payment:   payment,
		baseURL:   razorpayBaseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
		log:       log,
	}
}

// Configured reports whether API credentials were provided.
func (c *RazorpayClient) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// FetchPayment looks a payment up by id. Used as a best-effort fallback to
// recover the purchaser email when the webhook payload omits it.
func (c *RazorpayClient) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch payment %s: status %d", paymentID, resp.StatusCode)
	}

	var p Payment
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePaymentLink mints a hosted checkout page for the given email and
// returns its short URL.
func (c *RazorpayClient) CreatePaymentLink(ctx context.Context, email string) (string, error) {
	payload := map[string]any{
		"amount":      c.payment.AmountPaise,
		"currency":    c.payment.Currency,
		"description": c.payment.Description,
		"customer":    map[string]any{"email": email},
		"notify":      map[string]any{"sms": false, "email": true},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payment_links", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Error("create payment link failed",
			"status", resp.StatusCode, "body", string(detail))
		return "", fmt.Errorf("create payment link: status %d", resp.StatusCode)
	}

	var result struct {
		ShortURL string `json:"short_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ShortURL == "" {
		return "", ErrNoPaymentURL
	}
	return result.ShortURL, nil
}
