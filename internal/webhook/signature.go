package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks a Razorpay webhook signature: hex-encoded
// HMAC-SHA256 of the raw request body under the shared secret. It runs over
// the bytes as delivered, before any JSON parsing, and fails closed when the
// secret or signature is missing. The comparison is constant time.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
