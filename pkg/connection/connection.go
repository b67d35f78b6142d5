// Package connection implements the transport layer for the Logseq
// HTTP API: a single RPC primitive with retry, backoff and typed
// failure classification.
package connection

import (
	"context"
	"time"
)

// Caller executes one named remote method with a positional argument
// list and returns the parsed JSON result.
//
// Implementations must be safe for concurrent use: each call keeps
// its retry loop and error state local, and no mutable state is
// shared between in-flight calls.
type Caller interface {
	Call(ctx context.Context, method string, args []any, opts ...CallOption) (any, error)
	Close() error
}

type callOptions struct {
	timeout time.Duration
}

// CallOption adjusts a single call without touching the connection
// profile.
type CallOption func(*callOptions)

// WithTimeout overrides the profile timeout for this call only.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		o.timeout = d
	}
}
