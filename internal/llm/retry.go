package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy is applied to every provider call. MaxAttempts counts total
// calls, so 3 means one call plus up to two retries. Delays start at
// BaseDelay and double, capped at MaxDelay when positive.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Retryable   func(error) bool
}

// DefaultRetryPolicy retries overloaded and malformed responses three times
// in total, waiting 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    16 * time.Second,
		Retryable:   IsRetryable,
	}
}

// IsRetryable reports whether err is worth another provider call.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrOverloaded) || errors.Is(err, ErrMalformedResponse)
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return retry.WithMaxRetries(uint64(attempts-1), b) // #nosec G115 -- attempts >= 1
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempt
// budget is spent or ctx is done. It returns the number of calls made and
// the last error from fn, or ctx.Err() when the context ended first.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	attempts := 0
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		attempts++
		err := fn(ctx, attempts)
		if err != nil && retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return attempts, err
}
