package license

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const keyPrefix = "SQLH"

// Generate returns a fresh license key of the form SQLH-XXXXXXXX-XXXX, both
// hex segments drawn independently from crypto/rand. Generation is pure: no
// store lookup, and the key is never derived from purchaser data. Collisions
// are treated as negligible rather than checked for.
func Generate() string {
	return keyPrefix + "-" + randomHex(4) + "-" + randomHex(2)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the platform entropy source is gone;
		// there is no sensible degraded mode for key issuance.
		panic("license: crypto/rand unavailable: " + err.Error())
	}
	return strings.ToUpper(hex.EncodeToString(b))
}
