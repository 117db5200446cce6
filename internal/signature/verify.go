package signature

import (
	"encoding/hex"
	"strings"
)

// Prefix is the required signature header prefix.
const Prefix = "sha256="

// hexDigestLen is the length of a hex-encoded 32-byte digest.
const hexDigestLen = 64

// Verify reports whether signatureHeader carries a valid HMAC-SHA-256
// signature of body under secret. The header must be of the form
// "sha256=<64 lowercase hex chars>"; anything else is rejected.
func Verify(body []byte, signatureHeader, secret string) bool {
	if secret == "" {
		return false
	}
	if !strings.HasPrefix(signatureHeader, Prefix) {
		return false
	}
	provided := strings.TrimPrefix(signatureHeader, Prefix)
	if len(provided) != hexDigestLen {
		return false
	}

	return constantTimeEqual(provided, Compute(body, secret))
}

// Compute returns the lowercase hex HMAC-SHA-256 of body under secret.
func Compute(body []byte, secret string) string {
	sum := HMAC([]byte(secret), body)
	return hex.EncodeToString(sum[:])
}

// Header formats a hex digest as a signature header value.
func Header(hexDigest string) string {
	return Prefix + hexDigest
}

// constantTimeEqual compares two equal-length strings without short-circuiting
// on the first mismatch. A length mismatch returns false immediately; the
// digest length is fixed and public, so that leaks nothing useful.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	acc, _ := xorAccumulate(a, b)
	return acc == 0
}

// xorAccumulate ORs together the XOR of every character pair and reports how
// many pairs were consumed. For equal-length inputs the count always equals
// the full length, mismatch or not; tests assert on it.
func xorAccumulate(a, b string) (acc byte, n int) {
	for i := 0; i < len(a) && i < len(b); i++ {
		acc |= a[i] ^ b[i]
		n++
	}
	return acc, n
}
