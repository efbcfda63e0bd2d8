// Package wait provides the blocking polling primitives widgets use while the
// page settles: a fixed-interval condition poll bounded by a timeout, and a
// bounded retry for lookups that hit stale or missing elements.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pfwidgets/internal/domain/entity"

	"github.com/go-rod/rod/lib/utils"
)

// Options bound a poll. Zero values fall back to DefaultInterval and
// DefaultTimeout.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	// Message describes the awaited condition in the timeout error.
	Message string
}

const (
	DefaultInterval = 200 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

// Condition is polled until it reports true or returns an error.
type Condition func(ctx context.Context) (bool, error)

// For polls cond every Interval until it is true. Stale element errors
// raised by cond are treated as "not yet"; any other error ends the wait.
// When Timeout elapses the error wraps entity.ErrTimeout.
func For(ctx context.Context, opts Options, cond Condition) error {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	pollCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	err := utils.Retry(pollCtx, Fixed(opts.Interval), func() (bool, error) {
		ok, err := cond(pollCtx)
		if errors.Is(err, entity.ErrStaleElement) {
			return false, nil
		}
		if err != nil {
			return true, err
		}
		return ok, nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		msg := opts.Message
		if msg == "" {
			msg = "condition"
		}
		return fmt.Errorf("%w: %s not met within %s", entity.ErrTimeout, msg, opts.Timeout)
	}
	return err
}

// Fixed is a sleeper that always waits d.
func Fixed(d time.Duration) utils.Sleeper {
	return func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}
}

// Sleep pauses for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	return Fixed(d)(ctx)
}

// RetryPolicy bounds Retry.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetry retries element lookups ten times, half a second apart.
var DefaultRetry = RetryPolicy{Attempts: 10, Delay: 500 * time.Millisecond}

// Retry calls fn until it succeeds, fails with a non-retryable error or the
// attempts are exhausted. Stale and not-found errors are retryable; the last
// one is returned when attempts run out.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	if policy.Attempts <= 0 {
		policy.Attempts = 1
	}

	var (
		result T
		last   error
		n      int
	)
	err := utils.Retry(ctx, Fixed(policy.Delay), func() (bool, error) {
		n++
		result, last = fn(ctx)
		if last == nil {
			return true, nil
		}
		if !entity.IsRetryable(last) || n >= policy.Attempts {
			return true, last
		}
		return false, nil
	})
	return result, err
}
