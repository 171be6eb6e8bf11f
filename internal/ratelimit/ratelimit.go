// Package ratelimit implements fixed-window request limiting keyed by client identifier.
// Counters live in a Store so a single process can keep them in memory and a fleet can share
// them through redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimited is returned to callers that exceeded their window.
var ErrRateLimited = errors.New("rate limited")

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RetryAfter is how long a denied caller should wait, rounded up to whole seconds.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.Reset.Sub(now)
	if wait <= 0 {
		return 0
	}
	return (wait + time.Second - 1) / time.Second * time.Second
}

// Store counts hits per key. Hit increments the key's counter, starting a fresh window of the
// given length when none is open, and returns the new count and when the window closes.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, reset time.Time, err error)
}

// Limiter allows up to limit hits per key in each window.
type Limiter struct {
	name   string
	limit  int
	window time.Duration
	store  Store
}

func New(name string, limit int, window time.Duration, store Store) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("ratelimit %s: limit must be > 0", name)
	}
	if window <= 0 {
		return nil, fmt.Errorf("ratelimit %s: window must be > 0", name)
	}
	if store == nil {
		return nil, fmt.Errorf("ratelimit %s: store is required", name)
	}
	return &Limiter{name: name, limit: limit, window: window, store: store}, nil
}

func (l *Limiter) Name() string { return l.name }
func (l *Limiter) Limit() int   { return l.limit }

// Allow records one hit for key and reports whether it fits in the current window.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, reset, err := l.store.Hit(ctx, l.name+":"+key, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit %s: %w", l.name, err)
	}
	return Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: max(0, l.limit-count),
		Reset:     reset,
	}, nil
}
