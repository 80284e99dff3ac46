// Package retry runs operations with exponential backoff. Errors classified
// as invalid or fatal by the errors package are returned at once; all other
// errors are retried until the attempts are used up.
package retry

import (
	"context"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/c360/semfilter/errors"
)

// Policy describes how often and how fast an operation is retried
type Policy struct {
	MaxAttempts  int           // Total attempts; values below 1 mean one attempt
	InitialDelay time.Duration // Delay after the first failure
	MaxDelay     time.Duration // Upper bound of the delay
	Multiplier   float64       // Delay growth per attempt
	Jitter       bool          // Add up to 25% random delay
}

// Startup suits connecting to infrastructure while the host starts
func Startup() Policy {
	return Policy{
		MaxAttempts:  10,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// Once performs a single attempt
func Once() Policy {
	return Policy{MaxAttempts: 1}
}

// permanent reports errors that no retry can fix
func permanent(err error) bool {
	return errors.IsInvalid(err) || errors.IsFatal(err)
}

// Do runs fn until it succeeds, fails permanently, the attempts are used up
// or ctx is done
func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.InitialDelay < 0 || p.MaxDelay < 0 || p.Multiplier < 0 {
		return errors.WrapInvalid(stderrors.New("negative delay or multiplier"), "Retry", "Do", "policy check")
	}
	attempts := max(p.MaxAttempts, 1)
	delay := p.InitialDelay
	if delay == 0 {
		delay = 100 * time.Millisecond
	}
	maxDelay := max(p.MaxDelay, delay)
	multiplier := p.Multiplier
	if multiplier == 0 {
		multiplier = 2.0
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || permanent(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		wait := delay
		if p.Jitter && delay >= 4 {
			wait += rand.N(delay / 4)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempts: %w", attempt, ctx.Err())
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*multiplier), maxDelay)
	}
	return fmt.Errorf("retry failed after %d attempts: %w", attempts, lastErr)
}

// DoValue is Do for operations returning a value
func DoValue[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, p, func() error {
		var err error
		result, err = fn()
		return err
	})
	return result, err
}
