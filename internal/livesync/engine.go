package livesync

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"skyperious/internal/skypedata"
)

// Engine drives a single live-sync run against a Store using a Client.
// Each run is tagged with a fresh run id, threaded through every applog
// event as the "run_id" attribute so multi-run logs can be correlated —
// an ambient addition beyond spec.md's contract, grounded on the general
// pack practice of attaching a correlation id to long-running background
// work.
type Engine struct {
	Client      Client
	Store       *skypedata.Store
	RateLimiter *RateLimiter
	Retry       RetryOptions
	Counts      SyncCounts
	RunID       string

	seenThisSession map[int64]bool // message pk_id -> already observed NOCHANGE this run
}

// NewEngine constructs an Engine with a fresh run id and default rate
// limiter/retry settings.
func NewEngine(client Client, store *skypedata.Store) *Engine {
	return &Engine{
		Client:          client,
		Store:           store,
		RateLimiter:     NewRateLimiter(),
		Retry:           RetryOptions{},
		Counts:          SyncCounts{},
		RunID:           uuid.NewString(),
		seenThisSession: map[int64]bool{},
	}
}

// call wraps a Client call with rate limiting and retry, the `reqattr`
// equivalent from the original engine.
func (e *Engine) call(ctx context.Context, fn func() error) error {
	e.RateLimiter.Wait(nil)
	opts := e.Retry
	opts.RunID = e.RunID
	opts.Raise = true
	opts.Log = true
	return Retry(ctx, opts, fn)
}

func (e *Engine) logf(msg string, args ...any) {
	slog.Info(msg, append([]any{"run_id", e.RunID}, args...)...)
}
