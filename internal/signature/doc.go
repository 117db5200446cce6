// Package signature authenticates inbound webhook bodies.
//
// The RFD tool signs every delivery with HMAC-SHA-256 over the raw request
// body using a pre-shared secret, and sends the result as
// "sha256=<lowercase hex>" in the X-RFD-Signature header. This package
// carries its own SHA-256 (FIPS 180-4) and HMAC (RFC 2104) so the verifier
// has no dependency on platform crypto; both are checked against the
// published test vectors.
//
// # Verification Flow
//
//  1. Header must carry the literal "sha256=" prefix
//  2. HMAC-SHA-256 computed over the exact body bytes with the secret
//  3. Expected digest hex-encoded (lowercase)
//  4. Constant-time comparison against the header digest - every character
//     pair is consumed before the verdict, so a mismatch position is not
//     observable through timing
//
// Verify is a pure function: no I/O, no clock, no global state.
package signature
