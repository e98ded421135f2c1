package livesync

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryOptions mirrors the request(f, *args, __retry/__raise/__log)
// per-call override bag from the original engine.
type RetryOptions struct {
	MaxAttempts     int           // default 3
	Delay           time.Duration // default 20s
	AuthRateDelay   time.Duration // escalated delay on HTTP 429, default 5x Delay
	Raise           bool          // re-raise the final error instead of swallowing it
	Log             bool          // log each retry attempt
	RunID           string
	SleepFn         func(time.Duration)
}

func (o RetryOptions) withDefaults() RetryOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.Delay <= 0 {
		o.Delay = 20 * time.Second
	}
	if o.AuthRateDelay <= 0 {
		o.AuthRateDelay = 5 * o.Delay
	}
	if o.SleepFn == nil {
		o.SleepFn = time.Sleep
	}
	return o
}

// Retry calls fn up to opts.MaxAttempts times, sleeping opts.Delay between
// attempts (opts.AuthRateDelay instead when the failure is a 429), and
// either returns the last error (opts.Raise) or swallows it and returns
// nil otherwise.
func Retry(ctx context.Context, opts RetryOptions, fn func() error) error {
	opts = opts.withDefaults()
	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if opts.Log {
			slog.Warn("livesync: call failed, retrying", "attempt", attempt, "run_id", opts.RunID, "error", lastErr)
		}
		if attempt == opts.MaxAttempts {
			break
		}
		delay := opts.Delay
		var statusErr *HTTPStatusError
		if errors.As(lastErr, &statusErr) && statusErr.StatusCode == 429 {
			delay = opts.AuthRateDelay
		}
		opts.SleepFn(delay)
	}
	if opts.Raise {
		return lastErr
	}
	return nil
}
