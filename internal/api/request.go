package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rickgao/lightstream/internal/auth"
	"github.com/rickgao/lightstream/internal/version"
)

// APIError represents an error from the Lightning API.
type APIError struct {
	StatusCode int
	Status     int // Venue status code from the error body, if any
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitflyer api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    http.StatusText(statusCode),
		Body:       body,
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.ErrorMessage != "" {
		apiErr.Status = eb.Status
		apiErr.Message = eb.ErrorMessage
	}
	return apiErr
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   []byte
	signed bool
}

// target returns the path and query string as signed and sent.
func (r request) target() string {
	if len(r.query) > 0 {
		return r.path + "?" + r.query.Encode()
	}
	return r.path
}

// doRequest performs a single HTTP request.
func (c *Client) doRequest(ctx context.Context, r request) ([]byte, error) {
	target := r.target()

	var reqBody io.Reader
	if r.body != nil {
		reqBody = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.signed {
		if c.creds == nil {
			return nil, auth.ErrNoCredentials
		}
		// Signed per attempt so that retries carry a fresh timestamp.
		for k, v := range c.creds.Sign(r.method, target, string(r.body)) {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// doWithRetry performs a request with exponential backoff retry.
// Only GET requests are retried; an order POST may have reached the venue.
func (c *Client) doWithRetry(ctx context.Context, r request) ([]byte, error) {
	maxRetries := c.maxRetries
	if r.method != http.MethodGet {
		maxRetries = 0
	}

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			var jitter time.Duration
			if backoff > 0 {
				jitter = backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			}
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", r.path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, r)
		if err == nil {
			return body, nil
		}

		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	if maxRetries == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

func decode(body []byte, result any) error {
	if result == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// get performs a public GET request with retries.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(body, result)
}

// getPrivate performs a signed GET request with retries.
func (c *Client) getPrivate(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, request{method: http.MethodGet, path: path, query: query, signed: true})
	if err != nil {
		return err
	}
	return decode(body, result)
}

// postPrivate performs a signed POST request without retries.
func (c *Client) postPrivate(ctx context.Context, path string, payload, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	body, err := c.doWithRetry(ctx, request{method: http.MethodPost, path: path, body: data, signed: true})
	if err != nil {
		return err
	}
	return decode(body, result)
}
