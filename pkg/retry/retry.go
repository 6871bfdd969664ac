// Package retry waits for backing services with capped exponential backoff.
// The server uses it while PostgreSQL and Redis come up; failures that more
// attempts cannot fix are marked Permanent by the caller and end the wait.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// permanentError marks a failure that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Run returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Policy describes how an operation is attempted.
type Policy struct {
	// Attempts includes the first call.
	Attempts int

	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64

	// Jitter spreads each delay by up to ±Jitter of its value.
	Jitter float64

	// OnRetry runs before sleeping between attempts.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Connect is the policy for dial-and-ping at startup: 500ms doubling up to
// 10s with 20% jitter.
func Connect(attempts int, onRetry func(attempt int, err error, delay time.Duration)) Policy {
	if attempts < 1 {
		attempts = 1
	}
	return Policy{
		Attempts:   attempts,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2,
		Jitter:     0.2,
		OnRetry:    onRetry,
	}
}

// Backoff returns the delay after the given failed attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(math.Max(p.Multiplier, 1), float64(attempt-1))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(math.Max(d, 0))
}

// Run calls op until it succeeds, returns a Permanent error, the attempts run
// out or ctx is done. The last error from op is returned, unwrapped from
// Permanent.
func (p Policy) Run(ctx context.Context, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if last != nil {
				return last
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		last = err
		if attempt >= p.Attempts {
			return last
		}

		delay := p.Backoff(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last
		case <-timer.C:
		}
	}
}
