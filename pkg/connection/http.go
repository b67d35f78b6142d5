package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/logseq/logseq.go/pkg/errs"
)

// maxErrorBodyLen bounds how much of an HTTP error body is carried
// into the error message.
const maxErrorBodyLen = 500

// rpcRequest is the wire shape the Logseq API expects: an object with
// a method name and a positional argument array.
type rpcRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// HTTPConnection is the thread-blocking Caller implementation. It
// POSTs each call to {base}/api and applies the retry budget to
// transport-layer failures only.
type HTTPConnection struct {
	config     Config
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

// NewHTTPConnection builds a connection from the given profile. The
// profile is normalized (trailing slash stripped, defaults applied)
// and immutable afterwards.
func NewHTTPConnection(config Config) *HTTPConnection {
	return &HTTPConnection{
		config:     config.withDefaults(),
		httpClient: &http.Client{},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = backoffMinInterval
			b.MaxInterval = backoffMaxInterval
			b.Multiplier = 2
			// Delays must be a pure function of the attempt number.
			b.RandomizationFactor = 0
			return b
		},
	}
}

// SetHTTPClient replaces the underlying http.Client. Mainly useful
// for tests that substitute the transport.
func (h *HTTPConnection) SetHTTPClient(client *http.Client) *HTTPConnection {
	h.httpClient = client
	return h
}

// SetBackOff replaces the per-call backoff factory. Tests use this to
// retry without sleeping.
func (h *HTTPConnection) SetBackOff(factory func() backoff.BackOff) *HTTPConnection {
	h.newBackOff = factory
	return h
}

// BaseURL returns the normalized base address of the profile.
func (h *HTTPConnection) BaseURL() string {
	return h.config.BaseURL
}

// Close releases the underlying connection resources. The connection
// must not be used afterwards.
func (h *HTTPConnection) Close() error {
	h.httpClient.CloseIdleConnections()
	return nil
}

// Call executes one RPC. Transport failures (network unreachable,
// timeout) are retried up to the profile budget with exponential
// backoff; HTTP error statuses and malformed bodies are classified
// and surfaced immediately. The last attempt's failure is the one
// returned.
func (h *HTTPConnection) Call(ctx context.Context, method string, args []any, opts ...CallOption) (any, error) {
	if method == "" {
		return nil, errs.New(errs.KindValidation, "method name must not be empty")
	}

	options := callOptions{timeout: h.config.Timeout}
	for _, opt := range opts {
		opt(&options)
	}

	if args == nil {
		args = []any{}
	}
	body, err := json.Marshal(rpcRequest{Method: method, Args: args})
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, err, "arguments are not JSON-encodable")
	}

	logger := h.config.Logger.With().Str("method", method).Logger()
	logger.Debug().Int("args", len(args)).Msg("calling Logseq API")

	result, err := backoff.Retry(ctx,
		func() (any, error) {
			return h.attempt(ctx, body, options.timeout)
		},
		backoff.WithBackOff(h.newBackOff()),
		backoff.WithMaxTries(uint(h.config.MaxRetries)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			logger.Warn().Err(err).Dur("backoff", delay).Msg("retrying Logseq API call")
		}),
	)
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Unwrap()
		}
		logger.Debug().Err(err).Msg("Logseq API call failed")
		return nil, err
	}
	return result, nil
}

// attempt performs a single HTTP exchange and classifies its outcome.
// Retryable failures are returned plain; non-retryable ones are
// wrapped with backoff.Permanent so the retry loop stops.
func (h *HTTPConnection) attempt(ctx context.Context, body []byte, timeout time.Duration) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, h.config.BaseURL+"/api", bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(errs.Wrap(errs.KindValidation, err, "invalid request"))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.config.Token)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errs.Wrap(errs.KindConnection, err, "request timeout after "+timeout.String())
		}
		return nil, errs.Wrap(errs.KindConnection, err, "failed to connect to "+h.config.BaseURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.KindConnection, err, "failed reading response from "+h.config.BaseURL)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(errs.Newf(errs.KindAuthentication, "HTTP %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, backoff.Permanent(errs.Newf(errs.KindAPI, "HTTP %d: %s", resp.StatusCode, truncate(respBody, maxErrorBodyLen)))
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, backoff.Permanent(errs.Wrap(errs.KindAPI, err, "invalid JSON response from Logseq API"))
	}
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func truncate(body []byte, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return string(body)
}
