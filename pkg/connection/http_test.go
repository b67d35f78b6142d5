package connection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/suite"

	"github.com/logseq/logseq.go/pkg/errs"
)

// RoundTripFunc replaces http.Client transport to avoid real calls.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewTestClient returns an *http.Client whose Transport is fn.
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

type HTTPTestSuite struct {
	suite.Suite
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}

// newConn builds a connection with a zero-wait backoff so retry tests
// run without sleeping.
func (s *HTTPTestSuite) newConn(fn RoundTripFunc) *HTTPConnection {
	conn := NewHTTPConnection(Config{
		BaseURL: "http://test.logseq:12315",
		Token:   "secret",
	})
	conn.SetHTTPClient(NewTestClient(fn))
	conn.SetBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })
	return conn
}

// The default retry schedule doubles from 1s and caps at 10s, with
// no jitter, so the delay for each attempt is deterministic.
func (s *HTTPTestSuite) TestDefaultBackOffSchedule() {
	conn := NewHTTPConnection(Config{
		BaseURL: "http://test.logseq:12315",
		Token:   "secret",
	})

	b := conn.newBackOff()
	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for i, want := range expected {
		s.Equalf(want, b.NextBackOff(), "delay before retry %d", i+1)
	}

	// Each call gets a fresh schedule.
	s.Equal(1*time.Second, conn.newBackOff().NextBackOff())
}

func (s *HTTPTestSuite) TestCallSuccess() {
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		s.Equal("http://test.logseq:12315/api", req.URL.String())
		s.Equal("Bearer secret", req.Header.Get("Authorization"))
		s.Equal("application/json", req.Header.Get("Content-Type"))
		return jsonResponse(http.StatusOK, `{"uuid":"b1","content":"x"}`), nil
	})

	result, err := conn.Call(context.Background(), "logseq.Editor.getBlock", []any{"b1"})
	s.Require().NoError(err)
	s.Equal(map[string]any{"uuid": "b1", "content": "x"}, result)
}

func (s *HTTPTestSuite) TestWireShape() {
	cases := []struct {
		method string
		args   []any
	}{
		{"logseq.App.getCurrentGraph", []any{}},
		{"logseq.Editor.getBlock", []any{"abc-123"}},
		{"logseq.Editor.insertBlock", []any{nil, "content", map[string]any{"before": true, "properties": map[string]any{"k": "v"}}}},
	}

	for _, tc := range cases {
		var captured []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured, _ = io.ReadAll(r.Body)
			w.Write([]byte("null"))
		}))

		conn := NewHTTPConnection(Config{BaseURL: server.URL, Token: "t"})
		_, err := conn.Call(context.Background(), tc.method, tc.args)
		s.Require().NoError(err)

		expected, err := json.Marshal(map[string]any{"method": tc.method, "args": tc.args})
		s.Require().NoError(err)
		s.JSONEq(string(expected), string(captured))

		server.Close()
		conn.Close()
	}
}

func (s *HTTPTestSuite) TestNilArgsEncodeAsEmptyArray() {
	var captured []byte
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		captured, _ = io.ReadAll(req.Body)
		return jsonResponse(http.StatusOK, "null"), nil
	})

	_, err := conn.Call(context.Background(), "logseq.Git.status", nil)
	s.Require().NoError(err)
	s.JSONEq(`{"method":"logseq.Git.status","args":[]}`, string(captured))
}

func (s *HTTPTestSuite) TestRetryBound() {
	var attempts atomic.Int32
	conn := NewHTTPConnection(Config{
		BaseURL:    "http://test.logseq:12315",
		MaxRetries: 3,
	})
	conn.SetHTTPClient(NewTestClient(func(req *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	}))
	conn.SetBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })

	_, err := conn.Call(context.Background(), "logseq.DB.q", []any{"[[x]]"})
	s.Require().Error(err)
	s.True(errs.IsConnection(err), "expected connection failure, got %v", err)
	s.EqualValues(3, attempts.Load())
	s.Contains(err.Error(), "failed to connect to http://test.logseq:12315")
}

func (s *HTTPTestSuite) TestNoRetryOnHTTPError() {
	var attempts atomic.Int32
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return jsonResponse(http.StatusNotFound, "page not found"), nil
	})

	_, err := conn.Call(context.Background(), "logseq.Editor.getPage", []any{"missing"})
	s.Require().Error(err)
	s.True(errs.IsAPI(err))
	s.Contains(err.Error(), "404")
	s.EqualValues(1, attempts.Load())
}

func (s *HTTPTestSuite) TestAuthClassification() {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		var attempts atomic.Int32
		conn := s.newConn(func(req *http.Request) (*http.Response, error) {
			attempts.Add(1)
			return jsonResponse(status, ""), nil
		})

		_, err := conn.Call(context.Background(), "logseq.App.getCurrentGraph", []any{})
		s.Require().Error(err)
		s.True(errs.IsAuthentication(err), "HTTP %d must classify as authentication", status)
		s.False(errs.IsAPI(err))
		s.EqualValues(1, attempts.Load())
	}
}

func (s *HTTPTestSuite) TestErrorBodyTruncated() {
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, strings.Repeat("x", 2000)), nil
	})

	_, err := conn.Call(context.Background(), "logseq.DB.q", []any{"q"})
	s.Require().Error(err)
	s.True(errs.IsAPI(err))
	s.Contains(err.Error(), "HTTP 500")
	s.LessOrEqual(len(err.Error()), maxErrorBodyLen+len("HTTP 500: "))
}

func (s *HTTPTestSuite) TestInvalidJSONBody() {
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "<html>not json</html>"), nil
	})

	_, err := conn.Call(context.Background(), "logseq.DB.q", []any{"q"})
	s.Require().Error(err)
	s.True(errs.IsAPI(err))
	s.Contains(err.Error(), "invalid JSON response")
}

func (s *HTTPTestSuite) TestTimeoutClassification() {
	var attempts atomic.Int32
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return nil, context.DeadlineExceeded
	})

	_, err := conn.Call(context.Background(), "logseq.DB.q", []any{"q"}, WithTimeout(2*time.Second))
	s.Require().Error(err)
	s.True(errs.IsConnection(err))
	s.Contains(err.Error(), "request timeout after 2s")
	s.EqualValues(DefaultMaxRetries, attempts.Load())
}

func (s *HTTPTestSuite) TestEmptyMethodRejected() {
	called := false
	conn := s.newConn(func(req *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(http.StatusOK, "null"), nil
	})

	_, err := conn.Call(context.Background(), "", []any{})
	s.Require().Error(err)
	s.True(errs.IsValidation(err))
	s.False(called, "validation failures must not reach the network")
}

// Concurrent calls on one connection must not interfere; each call
// keeps its own retry state and buffers.
func (s *HTTPTestSuite) TestConcurrentCalls() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(req.Args[0])
	}))
	defer server.Close()

	conn := NewHTTPConnection(Config{BaseURL: server.URL})
	defer conn.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := conn.Call(context.Background(), "logseq.DB.q", []any{float64(i)})
			s.NoError(err)
			s.Equal(float64(i), result)
		}(i)
	}
	wg.Wait()
}

func (s *HTTPTestSuite) TestBaseURLNormalized() {
	withSlash := NewHTTPConnection(Config{BaseURL: "http://localhost:12315/"})
	withoutSlash := NewHTTPConnection(Config{BaseURL: "http://localhost:12315"})
	s.Equal(withoutSlash.BaseURL(), withSlash.BaseURL())
}
