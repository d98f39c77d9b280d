package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/skillOfill/razorpay-backend/internal/config"
	"github.com/skillOfill/razorpay-backend/internal/database"
	"github.com/skillOfill/razorpay-backend/internal/service"
)

const testSecret = "whsec_test"

type fakeProvider struct {
	configured bool
	payment    *service.Payment
	fetchErr   error
	linkURL    string
	linkErr    error
	fetched    []string
}

func (f *fakeProvider) Configured() bool { return f.configured }

func (f *fakeProvider) FetchPayment(_ context.Context, paymentID string) (*service.Payment, error) {
	f.fetched = append(f.fetched, paymentID)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.payment, nil
}

func (f *fakeProvider) CreatePaymentLink(_ context.Context, _ string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return f.linkURL, nil
}

type fakeMailer struct {
	ok   bool
	sent []string
}

func (f *fakeMailer) SendLicense(to, _ string) bool {
	f.sent = append(f.sent, to)
	return f.ok
}

type testEnv struct {
	app      *fiber.App
	store    database.Store
	provider *fakeProvider
	mailer   *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Razorpay.WebhookSecret = testSecret

	store := database.OpenTest()
	t.Cleanup(func() { store.Close() })

	provider := &fakeProvider{}
	mailer := &fakeMailer{ok: true}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(cfg, store, provider, mailer, nil, log)

	app := fiber.New()
	h.Register(app)

	return &testEnv{app: app, store: store, provider: provider, mailer: mailer}
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/webhook/razorpay", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}
