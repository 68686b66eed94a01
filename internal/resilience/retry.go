// Package resilience retries transient failures of outbound calls and stops
// calling a source that keeps failing.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// Policy controls retries with exponential backoff and jitter.
type Policy struct {
	// Attempts is the total number of tries, the first included. Values
	// below 1 mean 1.
	Attempts int
	// Backoff is the delay before the first retry.
	Backoff time.Duration
	// MaxBackoff caps any single delay.
	MaxBackoff time.Duration
	// Jitter randomizes each delay by up to ±Jitter of itself.
	Jitter float64
	// Retryable decides whether an error is retried. Nil means IsTransient.
	Retryable func(err error) bool
	// OnRetry runs before each retry sleep.
	OnRetry func(attempt int, err error)
}

// Default backoff parameters.
const (
	DefaultBackoff    = 500 * time.Millisecond
	DefaultMaxBackoff = 10 * time.Second
	DefaultJitter     = 0.25
)

// WithRetries returns a policy allowing retries extra attempts after the
// first, with default backoff.
func WithRetries(retries int) Policy {
	return Policy{
		Attempts:   max(retries, 0) + 1,
		Backoff:    DefaultBackoff,
		MaxBackoff: DefaultMaxBackoff,
		Jitter:     DefaultJitter,
	}
}

// Logged returns a copy of p that logs each retry at warn level.
func (p Policy) Logged(service, operation string) Policy {
	p.OnRetry = func(attempt int, err error) {
		zap.L().Warn("retrying",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	return p
}

// Do runs fn until it succeeds, returns a non-retryable error, the
// attempts run out, or ctx is done. The last error is returned.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for functions returning a value.
func DoVal[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	attempts := max(p.Attempts, 1)

	var zero T
	for attempt := 1; ; attempt++ {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		if attempt >= attempts || ctx.Err() != nil || !retryable(err) {
			return zero, err
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		timer := time.NewTimer(p.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
}

// delay returns the sleep before retry number attempt (1-based).
func (p Policy) delay(attempt int) time.Duration {
	base := p.Backoff
	if base <= 0 {
		base = DefaultBackoff
	}
	ceiling := p.MaxBackoff
	if ceiling <= 0 {
		ceiling = DefaultMaxBackoff
	}

	d := math.Min(float64(base)*math.Pow(2, float64(attempt-1)), float64(ceiling))
	if p.Jitter > 0 {
		d += (rand.Float64()*2 - 1) * d * p.Jitter
	}
	return time.Duration(max(d, 0))
}
