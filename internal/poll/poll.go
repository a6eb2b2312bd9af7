// Package poll provides a bounded polling helper for job-queue style APIs.
//
// Wait repeatedly invokes a check function at a fixed interval until it
// reports completion, the attempt budget runs out, or the context is
// cancelled. A check that returns a plain error is treated as transient and
// skipped; wrap an error with Permanent to abort immediately.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrBudgetExhausted is returned when the attempt budget runs out without
// the check reporting completion.
var ErrBudgetExhausted = errors.New("poll: attempt budget exhausted")

// Func checks whether the awaited condition holds.
// Return (true, nil) when done. A non-nil error with done=false is
// transient unless wrapped with Permanent.
type Func func(ctx context.Context) (done bool, err error)

// Config controls the polling loop.
type Config struct {
	// Interval between attempts.
	Interval time.Duration

	// MaxAttempts bounds the number of checks.
	MaxAttempts int

	// Sleep is the wait hook. Tests replace it to avoid real delays.
	// If nil, a context-aware time.After wait is used.
	Sleep func(ctx context.Context, d time.Duration) error
}

// permanentError marks an error as non-retryable.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Wait aborts instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Wait runs fn every cfg.Interval until it completes, a permanent error
// occurs, the budget is exhausted, or ctx is cancelled.
// The first attempt runs after one interval, matching a submit-then-poll
// flow where the job is never complete at submission time.
func Wait(ctx context.Context, cfg Config, fn Func) error {
	if cfg.MaxAttempts <= 0 {
		return fmt.Errorf("poll: max attempts must be positive, got %d", cfg.MaxAttempts)
	}

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := sleep(ctx, cfg.Interval); err != nil {
			return err
		}

		done, err := fn(ctx)
		if err != nil {
			if IsPermanent(err) {
				return err
			}
			// Transient failure: burn the attempt and keep polling.
			lastErr = err
			continue
		}
		if done {
			return nil
		}
	}

	if lastErr != nil {
		return fmt.Errorf("%w (last error: %v)", ErrBudgetExhausted, lastErr)
	}
	return ErrBudgetExhausted
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
