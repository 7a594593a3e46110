package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/clipdoc"
)

// RetryFunc is called before each retry with the 1-based number of the
// attempt that failed, its error, and the delay before the next one.
type RetryFunc func(attempt int, err error, delay time.Duration)

// ExponentialDelays returns n delays doubling from base: base, 2·base, 4·base, ...
func ExponentialDelays(base time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = base << i
	}
	return out
}

// LinearDelays returns n delays growing by step: step, 2·step, 3·step, ...
func LinearDelays(step time.Duration, n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = step * time.Duration(i+1)
	}
	return out
}

// DefaultHTTPDelays are the lightweight backend's backoff delays: 1s, 2s.
func DefaultHTTPDelays() []time.Duration {
	return ExponentialDelays(time.Second, 2)
}

// DefaultBrowserDelays are the headless backend's backoff delays: 2s, 4s, 6s.
func DefaultBrowserDelays() []time.Duration {
	return LinearDelays(2*time.Second, 3)
}

// Retryable reports whether a failed attempt is worth repeating. Invalid
// input is not. Per-attempt timeouts are, so cancellation of the caller's
// context is checked separately by Retry.
func Retryable(err error) bool {
	return err != nil && clipdoc.ErrorCode(err) != clipdoc.EINVALID
}

// Retry calls fn once, then once more after each delay while the error is
// retryable. It returns the first success or the last error. onRetry, if
// not nil, is called before each wait.
func Retry[T any](ctx context.Context, delays []time.Duration, onRetry RetryFunc, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt >= len(delays) || !Retryable(err) {
			return zero, err
		}

		if onRetry != nil {
			onRetry(attempt+1, err, delays[attempt])
		}
		if err := sleep(ctx, delays[attempt]); err != nil {
			return zero, err
		}
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
