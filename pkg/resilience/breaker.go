// Package resilience wraps outbound checkout calls with a timeout, bounded
// retries with exponential backoff, and a circuit breaker. It runs on the
// calling side; the server-side processors never retry anything.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State is the circuit breaker state.
type State int

const (
	// StateClosed passes requests through and counts failures.
	StateClosed State = iota
	// StateOpen rejects requests immediately without a network call.
	StateOpen
	// StateHalfOpen allows exactly one trial request after the recovery timeout.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrCircuitOpen is returned while the breaker is open: the backend is
// temporarily unavailable and no call was attempted.
var ErrCircuitOpen = errors.New("checkout service temporarily unavailable")

// Breaker is a process-local circuit breaker. State is in-memory and not
// shared across instances; each instance degrades independently.
type Breaker struct {
	mu               sync.Mutex
	state            State
	failures         int
	failureThreshold int
	recoveryTimeout  time.Duration
	lastFailure      time.Time
	now              func() time.Time
}

// NewBreaker creates a closed breaker. It opens after failureThreshold
// consecutive failures and allows a trial call once recoveryTimeout has
// elapsed since the last failure.
func NewBreaker(failureThreshold int, recoveryTimeout time.Duration) *Breaker {
	return &Breaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		now:              time.Now,
	}
}

// Allow reports whether a request may proceed. In the open state it returns
// ErrCircuitOpen until the recovery timeout elapses, then moves to half-open
// and admits one trial request.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.lastFailure) > b.recoveryTimeout {
			b.state = StateHalfOpen
			return nil
		}
		return ErrCircuitOpen
	case StateHalfOpen:
		// The single trial request is already in flight.
		return ErrCircuitOpen
	default:
		return nil
	}
}

// OnSuccess records a successful round trip, closing the breaker and
// resetting the failure counter.
func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	b.state = StateClosed
}

// OnFailure records a failed round trip. A half-open failure reopens the
// breaker and resets the failure clock; closed-state failures accumulate
// until the threshold trips the breaker.
func (b *Breaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = b.now()
	if b.state == StateHalfOpen {
		b.state = StateOpen
		return
	}
	b.failures++
	if b.failures >= b.failureThreshold {
		b.state = StateOpen
	}
}

// CurrentState returns the state for observability.
func (b *Breaker) CurrentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
