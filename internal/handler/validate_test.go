package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Add(ctx, "SQLH-AAAA1111-BBBB", "a@b.com", "", "pay_v1"))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantValid  bool
	}{
		{"known key", "/api/validate?key=SQLH-AAAA1111-BBBB", http.StatusOK, true},
		{"unknown key", "/api/validate?key=SQLH-DEAD0000-BEEF", http.StatusOK, false},
		{"blank key", "/api/validate?key=", http.StatusBadRequest, false},
		{"whitespace key", "/api/validate?key=%20%20", http.StatusBadRequest, false},
		{"missing param", "/api/validate", http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantValid, decodeJSON(t, resp)["valid"])
		})
	}
}

func TestValidateByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.Add(ctx, "SQLH-CCCC2222-DDDD", "USER@Example.com", "", "pay_v2"))

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/validate-by-email?email=user@example.com", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeJSON(t, resp)["valid"])

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/validate-by-email?email=nobody@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, false, decodeJSON(t, resp)["valid"])

	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/api/validate-by-email?email=", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidateByEmailDebug(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/validate-by-email?email=User@Example.com&debug=1", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeJSON(t, resp)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "user@example.com", body["checked_email"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeJSON(t, resp)["status"])
}
