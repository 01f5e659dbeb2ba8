// Package resilience provides fault-tolerance patterns for external calls:
// circuit breaker, bulkhead and client-side rate limiting. Calls are never
// retried; a failed call fails the request that made it.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// Config holds resilience parameters.
type Config struct {
	MaxConcurrency int
	RPS            float64
	Burst          int
}

// NewCircuitBreaker creates a circuit breaker with sensible defaults.
// Errors matched by any of ignore are reported to the breaker as successes,
// e.g. client-fault responses that say nothing about the service's health.
func NewCircuitBreaker(name string, ignore ...func(error) bool) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,                // half-open: allow 3 requests
		Interval:    30 * time.Second, // closed: reset counters every 30s
		Timeout:     10 * time.Second, // open -> half-open after 10s
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var gone *callerGoneError
			if errors.As(err, &gone) {
				return true
			}
			for _, fn := range ignore {
				if fn(err) {
					return true
				}
			}
			return false
		},
	})
}

// callerGoneError marks a failure that happened after the caller's own
// context ended. It never counts against the breaker.
type callerGoneError struct {
	err error
}

func (e *callerGoneError) Error() string { return e.err.Error() }

func (e *callerGoneError) Unwrap() error { return e.err }

// Execute runs fn through the breaker. An open or saturated half-open breaker
// is reported as *domain.ErrCircuitOpen; fn's own errors pass through unchanged.
// Failures that occur once ctx is done are not counted by the breaker, so one
// caller giving up cannot open the circuit for everyone else.
func Execute[T any](ctx context.Context, cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (any, error) {
		v, err := fn()
		if err != nil && ctx.Err() != nil {
			return v, &callerGoneError{err: err}
		}
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &domain.ErrCircuitOpen{Service: cb.Name()}
		}
		var gone *callerGoneError
		if errors.As(err, &gone) {
			return zero, gone.err
		}
		return zero, err
	}
	return res.(T), nil
}

// NewLimiter returns a token bucket allowing rps calls per second.
// A non-positive rps disables limiting.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Bulkhead limits concurrent access to a resource.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead with the given max concurrency.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	return &Bulkhead{sem: make(chan struct{}, maxConcurrency)}
}

// Acquire blocks until a slot is available or context is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}
