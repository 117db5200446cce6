// Package webhook implements the HTTP surface that receives signed RFD
// events and drives reconciliation.
//
// A single POST endpoint accepts JSON payloads from the RFD tool. Every
// request must carry an HMAC-SHA256 signature over the raw body in the
// X-RFD-Signature header; verification happens before any parsing.
//
// # Request Flow
//
//  1. HTTP POST arrives at the configured path
//  2. Body size checked (reject with 413 if too large)
//  3. Signature verified over the exact raw bytes (reject with 401)
//  4. JSON decoded and validated (reject with 400)
//  5. Event handed to the reconciler
//  6. Outcome recorded in the delivery log
//  7. JSON response returned
//
// # Error Responses
//
//   - 401 Unauthorized: invalid or missing signature (no details)
//   - 400 Bad Request: malformed or incomplete payload
//   - 413 Payload Too Large: body exceeds max_body_size
//   - 500 Internal Server Error: reconciliation failed
//
// Success and failure responses share one shape:
//
//	{"success": true, "discussion": {"id": "...", "url": "..."}}
//	{"success": false, "error": "..."}
//
// A GET /healthz endpoint reports uptime and store counters for probes.
package webhook
