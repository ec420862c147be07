// Package client is the Go client for the rentflow API. Calls are JSON in
// and out, routed through a circuit breaker, with no automatic retries:
// callers decide whether a failed call is worth repeating.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Client talks to the rentflow API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    *SessionGuard
	cb         *gobreaker.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the API at baseURL. A nil source produces a
// client that can only reach unauthenticated endpoints.
func New(baseURL string, source SessionSource, opts ...Option) *Client {
	if source == nil {
		source = StaticToken("")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		session:    NewSessionGuard(source),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "rentflow-api",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 5 && failureRatio >= 0.6
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the session guard, e.g. to reset it after login.
func (c *Client) Session() *SessionGuard {
	return c.session
}

// do executes one JSON API call. Authenticated calls fetch the token from
// the session source first; the request itself runs inside the breaker.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authenticated bool) error {
	var token string
	if authenticated {
		var err error
		token, err = c.session.Token(ctx)
		if err != nil {
			return err
		}
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	result, err := c.cb.Execute(func() (any, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport failure: no HTTP status exists. Distinct kind
			// from an HTTP-level error.
			return nil, fmt.Errorf("%w (%v)", ErrServerUnreachable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w (%v)", ErrServerUnreachable, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, newAPIError(resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%w (%v)", ErrServerUnreachable, err)
		}
		return err
	}

	if out != nil {
		data := result.([]byte)
		if len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out, true)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, true)
}
