// Package backend is the HTTP client of the WORK21 REST backend.
//
// Every call carries Content-Type: application/json and, when the client's
// TokenSource holds a credential, Authorization: Bearer <token>. Replies outside
// 2xx become *domain.APIError; 204 replies decode to the zero value; transport
// failures are returned wrapped and are never an *domain.APIError. The client
// never retries, caches or deduplicates.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/work21/portal/internal/api/metrics"
	"github.com/work21/portal/internal/core/domain"
	"github.com/work21/portal/internal/core/ports"
)

// Config captures the settings of the backend client.
type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero means no timeout.
	Timeout time.Duration
}

// Client talks to the backend on behalf of one token source.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenSource
	log     zerolog.Logger
}

// New returns a client with no credential attached. Use WithTokens to bind it
// to a client-local storage.
func New(cfg Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  noTokens{},
		log:     log.With().Str("component", "backend").Logger(),
	}
}

// WithTokens returns a copy of c that authenticates with ts. The underlying
// http.Client and its connection pool are shared.
func (c *Client) WithTokens(ts ports.TokenSource) *Client {
	clone := *c
	if ts == nil {
		ts = noTokens{}
	}
	clone.tokens = ts
	return &clone
}

// RequestOption adjusts an outgoing request.
type RequestOption func(*http.Request)

// WithHeader adds an extra header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// Do sends method path with an optional JSON body and decodes a successful
// reply into out (which may be nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend %s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token, ok := c.tokens.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, opt := range opts {
		opt(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(method, "transport_error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequestsTotal.WithLabelValues(method, "api_error").Inc()
		raw, _ := io.ReadAll(resp.Body)
		apiErr := domain.NewAPIError(resp.StatusCode, errorMessage(raw))
		c.log.Debug().
			Int("status", apiErr.Status).
			Str("method", method).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("backend rejected request")
		return apiErr
	}
	metrics.BackendRequestsTotal.WithLabelValues(method, "ok").Inc()

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode reply: %w", err)}
	}
	return nil
}

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// TransportError is a failure to reach the backend or to read its reply. It
// matches domain.ErrBackendUnavailable under errors.Is.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool {
	return target == domain.ErrBackendUnavailable
}

// errorBody covers the shapes the backend uses for error replies:
// {"detail": "..."}, {"detail": [{"msg": "..."}]}, {"message": "..."}.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// errorMessage extracts a human-readable message from an error body, or ""
// when none can be found.
func errorMessage(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil && s != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.Do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	out, err := call[[]T](ctx, c, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

type noTokens struct{}

func (noTokens) Token(context.Context) (string, bool) { return "", false }
