package resilience

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"
)

// APIError is a non-2xx response from the checkout backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("checkout backend returned %d: %s", e.Status, e.Body)
}

// Options configures a Client. Zero fields fall back to defaults.
type Options struct {
	AttemptTimeout   time.Duration // per-attempt wall clock, default 12s
	MaxRetries       *int          // retries after the first attempt; nil means 2, zero disables retries
	BaseBackoff      time.Duration // first backoff, doubled per retry, default 500ms
	FailureThreshold int           // consecutive failures before opening, default 5
	RecoveryTimeout  time.Duration // open-state cool down, default 30s
}

func (o *Options) withDefaults() Options {
	opts := *o
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 12 * time.Second
	}
	if opts.MaxRetries == nil {
		defaultRetries := 2
		opts.MaxRetries = &defaultRetries
	} else if *opts.MaxRetries < 0 {
		noRetries := 0
		opts.MaxRetries = &noRetries
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 500 * time.Millisecond
	}
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = 5
	}
	if opts.RecoveryTimeout <= 0 {
		opts.RecoveryTimeout = 30 * time.Second
	}
	return opts
}

// Client wraps the checkout round trip with a circuit breaker and bounded
// exponential-backoff retries. Only transient failures are retried: timeouts,
// connection resets, 5xx responses. Validation (4xx) errors are returned as
// is; retrying them would be pointless or dangerous.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *Breaker
	opts       Options
	sleep      func(time.Duration)
}

// NewClient creates a checkout client for the given backend base URL.
func NewClient(baseURL string, opts Options) *Client {
	o := opts.withDefaults()
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		breaker:    NewBreaker(o.FailureThreshold, o.RecoveryTimeout),
		opts:       o,
		sleep:      time.Sleep,
	}
}

// Checkout posts the payload to the checkout endpoint and returns the raw
// response body. While the breaker is open it fails fast with ErrCircuitOpen
// and no network call is made.
func (c *Client) Checkout(ctx context.Context, payload any, authToken string) ([]byte, error) {
	return c.post(ctx, "/api/v1/checkout", payload, authToken)
}

func (c *Client) post(ctx context.Context, path string, payload any, authToken string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	backoff := c.opts.BaseBackoff
	for attempt := 0; attempt <= *c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(backoff)
			backoff *= 2
		}

		respBody, err := c.attempt(ctx, path, body, authToken)
		if err == nil {
			c.breaker.OnSuccess()
			return respBody, nil
		}
		if !IsRetryable(err) {
			// The backend answered, it just rejected the request. That is a
			// healthy round trip as far as the breaker is concerned.
			c.breaker.OnSuccess()
			return nil, err
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	c.breaker.OnFailure()
	return nil, fmt.Errorf("checkout failed after retries: %w", lastErr)
}

func (c *Client) attempt(ctx context.Context, path string, body []byte, authToken string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBody, nil
	}
	return nil, &APIError{Status: resp.StatusCode, Body: string(respBody)}
}

// IsRetryable reports whether an error is in the whitelisted transient
// class: timeout, connection reset/refused, or a 5xx response (including the
// explicit 503 the backend uses for storage unavailability).
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return false
}

// BreakerState exposes the breaker state for observability.
func (c *Client) BreakerState() State {
	return c.breaker.CurrentState()
}
