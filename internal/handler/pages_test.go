package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThankYouShowsKeyForKnownOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Add(ctx, "SQLH-EEEE3333-FFFF", "a@b.com", "ORD42", "pay_t1"))

	for _, path := range []string{"/thank-you", "/success", "/callback"} {
		t.Run(path, func(t *testing.T) {
			resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, path+"?order_id=ORD42", nil))
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			require.NoError(t, err)
			assert.Contains(t, string(body), "SQLH-EEEE3333-FFFF")
		})
	}
}

func TestThankYouGenericWithoutOrder(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/thank-you", "/thank-you?order_id=UNKNOWN"} {
		resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.False(t, strings.Contains(string(body), "SQLH-"),
			"generic page must not leak a key")
		assert.Contains(t, string(body), "sent your license key to your email")
	}
}
