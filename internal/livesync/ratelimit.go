package livesync

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window request cap: at most Limit calls
// within Window, with a minimum inter-call spacing of Window/Limit once
// more than one call has been recorded, matching the original engine's
// `request` throttle.
type RateLimiter struct {
	Limit  int
	Window time.Duration

	mu        sync.Mutex
	history   []time.Time
	callCount int
}

// NewRateLimiter returns a limiter defaulting to 10 requests / 60 seconds,
// the original engine's defaults.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{Limit: 10, Window: 60 * time.Second}
}

// Wait blocks, if necessary, until a call is permitted, then records it.
// sleepFn defaults to time.Sleep; tests may override it to avoid real
// delays.
func (r *RateLimiter) Wait(sleepFn func(time.Duration)) {
	if sleepFn == nil {
		sleepFn = time.Sleep
	}
	r.mu.Lock()
	now := time.Now()
	r.history = prune(r.history, now, r.Window)

	var delay time.Duration
	switch {
	case len(r.history) >= r.Limit:
		oldest := r.history[0]
		span := now.Sub(oldest)
		delay = r.Window - span
	case r.callCount > 1:
		minSpacing := r.Window / time.Duration(r.Limit)
		if len(r.history) > 0 {
			last := r.history[len(r.history)-1]
			elapsed := now.Sub(last)
			if elapsed < minSpacing {
				delay = minSpacing - elapsed
			}
		}
	}
	r.mu.Unlock()

	if delay > 0 {
		sleepFn(delay)
	}

	r.mu.Lock()
	r.history = append(r.history, time.Now())
	r.callCount++
	r.mu.Unlock()
}

func prune(history []time.Time, now time.Time, window time.Duration) []time.Time {
	cut := 0
	for cut < len(history) && now.Sub(history[cut]) > window {
		cut++
	}
	return history[cut:]
}
