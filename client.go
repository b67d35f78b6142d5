package logseq

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/logseq/logseq.go/pkg/config"
	"github.com/logseq/logseq.go/pkg/connection"
	"github.com/logseq/logseq.go/pkg/errs"
)

// Client executes Logseq operations over one connection. It is safe
// for concurrent use.
type Client struct {
	conn     connection.Caller
	validate *validator.Validate
	logger   zerolog.Logger
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithLogger attaches a logger to the client.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCaller substitutes the transport. Used for composition and
// tests.
func WithCaller(caller connection.Caller) Option {
	return func(c *Client) {
		c.conn = caller
	}
}

// New builds a client from settings. The connection profile is
// created once here and owned by the returned client until Close.
func New(settings config.Settings, opts ...Option) *Client {
	client := &Client{
		validate: validator.New(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.conn == nil {
		client.conn = connection.NewHTTPConnection(connection.Config{
			BaseURL:    settings.APIURL,
			Token:      settings.APIToken,
			Timeout:    settings.Timeout(),
			MaxRetries: settings.APIMaxRetries,
			Logger:     client.logger,
		})
	}
	return client
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// HealthCheck reports whether the API is reachable. Any failure maps
// to false; this is the one place transport errors are swallowed.
func (c *Client) HealthCheck(ctx context.Context) bool {
	if _, err := c.CurrentGraph(ctx); err != nil {
		c.logger.Debug().Err(err).Msg("health check failed")
		return false
	}
	return true
}

// call is the single funnel from operations to the transport.
func (c *Client) call(ctx context.Context, method string, args ...any) (any, error) {
	return c.conn.Call(ctx, method, args)
}

// validateInput runs struct validation and converts failures into the
// validation error kind so they never reach the network.
func (c *Client) validateInput(input any) error {
	if err := c.validate.Struct(input); err != nil {
		return errs.Wrap(errs.KindValidation, err, err.Error())
	}
	return nil
}

func errValidation(message string) error {
	return errs.New(errs.KindValidation, message)
}

// unwrapBlockRef strips the ((uuid)) block-reference syntax. Any
// other shape, including single parentheses, is returned unchanged.
func unwrapBlockRef(ref string) string {
	if strings.HasPrefix(ref, "((") && strings.HasSuffix(ref, "))") {
		return ref[2 : len(ref)-2]
	}
	return ref
}
