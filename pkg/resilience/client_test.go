package resilience

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, opts Options) (*Client, *[]time.Duration) {
	c := NewClient(baseURL, opts)
	var sleeps []time.Duration
	c.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return c, &sleeps
}

func retryCount(n int) *int { return &n }

func TestClient_RetriesTransientThenSucceeds(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"referenceNumber":"A0010225"}`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL, Options{MaxRetries: retryCount(2), BaseBackoff: 100 * time.Millisecond})

	body, err := client.Checkout(context.Background(), map[string]any{"locationID": "LOC1"}, "")

	require.NoError(t, err)
	assert.Contains(t, string(body), "A0010225")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	// Two retries, exponential backoff.
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *sleeps)
	assert.Equal(t, StateClosed, client.BreakerState())
}

func TestClient_DoesNotRetryValidationErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"insufficient stock"}`, http.StatusConflict)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL, Options{MaxRetries: retryCount(3)})

	_, err := client.Checkout(context.Background(), map[string]any{}, "")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *sleeps)
	// A 4xx is the caller's problem, not backend health.
	assert.Equal(t, StateClosed, client.BreakerState())
}

func TestClient_ExhaustedRetriesCountAgainstBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, Options{MaxRetries: retryCount(1), FailureThreshold: 2})

	_, err := client.Checkout(context.Background(), map[string]any{}, "")
	require.Error(t, err)
	assert.Equal(t, StateClosed, client.BreakerState())

	_, err = client.Checkout(context.Background(), map[string]any{}, "")
	require.Error(t, err)
	assert.Equal(t, StateOpen, client.BreakerState())
}

func TestClient_FailsFastWhileOpen(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, Options{MaxRetries: retryCount(0), FailureThreshold: 1, RecoveryTimeout: time.Hour})

	_, err := client.Checkout(context.Background(), map[string]any{}, "")
	require.Error(t, err)
	require.Equal(t, StateOpen, client.BreakerState())
	callsBefore := atomic.LoadInt32(&calls)

	_, err = client.Checkout(context.Background(), map[string]any{}, "")

	require.ErrorIs(t, err, ErrCircuitOpen)
	// No network attempt while open.
	assert.Equal(t, callsBefore, atomic.LoadInt32(&calls))
}

func TestClient_HalfOpenTrialRejectedByBackendClosesBreaker(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusInternalServerError)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		if code == http.StatusCreated {
			w.WriteHeader(code)
			w.Write([]byte(`{"referenceNumber":"A0020225"}`))
			return
		}
		http.Error(w, "nope", code)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, Options{MaxRetries: retryCount(0), FailureThreshold: 1, RecoveryTimeout: 30 * time.Second})
	clock := &fakeClock{current: time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC)}
	client.breaker.now = clock.now

	_, err := client.Checkout(context.Background(), map[string]any{}, "")
	require.Error(t, err)
	require.Equal(t, StateOpen, client.BreakerState())

	// Recovery window passes; the half-open trial hits a validation error.
	clock.advance(31 * time.Second)
	status.Store(http.StatusBadRequest)
	_, err = client.Checkout(context.Background(), map[string]any{}, "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	// The backend answered, so the breaker is closed again and healthy
	// requests go straight through.
	assert.Equal(t, StateClosed, client.BreakerState())
	status.Store(http.StatusCreated)
	body, err := client.Checkout(context.Background(), map[string]any{}, "")
	require.NoError(t, err)
	assert.Contains(t, string(body), "A0020225")
}

func TestClient_ZeroRetriesMakesSingleAttempt(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, sleeps := newTestClient(server.URL, Options{MaxRetries: retryCount(0)})

	_, err := client.Checkout(context.Background(), map[string]any{}, "")

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Empty(t, *sleeps)
}

func TestClient_SendsAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, _ := newTestClient(server.URL, Options{})

	_, err := client.Checkout(context.Background(), map[string]any{}, "token-123")

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&APIError{Status: http.StatusInternalServerError}))
	assert.True(t, IsRetryable(&APIError{Status: http.StatusServiceUnavailable}))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(syscall.ECONNRESET))
	assert.True(t, IsRetryable(syscall.ECONNREFUSED))

	assert.False(t, IsRetryable(&APIError{Status: http.StatusBadRequest}))
	assert.False(t, IsRetryable(&APIError{Status: http.StatusConflict}))
	assert.False(t, IsRetryable(errors.New("encoding failure")))
}
