package connection

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout bounds a single attempt when the profile does
	// not specify one.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRetries is the total attempt budget for
	// transport-layer failures.
	DefaultMaxRetries = 3

	// Backoff envelope between retry attempts.
	backoffMinInterval = 1 * time.Second
	backoffMaxInterval = 10 * time.Second
)

// Config is the immutable connection profile owned by one
// HTTPConnection. It is read once at construction and never mutated
// afterwards.
type Config struct {
	// BaseURL of the Logseq HTTP API, with or without a trailing
	// slash; it is normalized at construction.
	BaseURL string
	// Token is the bearer credential sent on every request.
	Token string
	// Timeout bounds a single attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxRetries is the total attempt budget. Zero means
	// DefaultMaxRetries.
	MaxRetries int
	// Logger receives call and retry events. The zero value
	// discards them.
	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	return c
}
