package webhook

import (
	"context"

	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/reconcile"
	"github.com/geekgonecrazy/rfd-tool-rc-app/internal/rfd"
)

// SignatureHeader carries the hex HMAC-SHA256 signature of the raw body.
const SignatureHeader = "X-RFD-Signature"

// DefaultMaxBodySize bounds request bodies when the config leaves it unset.
const DefaultMaxBodySize = 1048576 // 1 MB

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address the HTTP server binds, e.g. "127.0.0.1:8080".
	Listen string

	// Path is the URL path the RFD tool posts to (e.g. "/webhook/rfd").
	Path string

	// Secret is the shared HMAC key. Requests are rejected when empty.
	Secret string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64
}

// EventReconciler is the piece of the reconciler the server needs.
type EventReconciler interface {
	Reconcile(ctx context.Context, ev *rfd.Event) (*reconcile.Result, error)
}

// Discussion is the room reference echoed back on success.
type Discussion struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Response is the JSON body for every webhook reply.
type Response struct {
	Success    bool        `json:"success"`
	Discussion *Discussion `json:"discussion,omitempty"`
	Error      string      `json:"error,omitempty"`
}
