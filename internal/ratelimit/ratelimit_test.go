package ratelimit_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/ratelimit"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNew_Validation(t *testing.T) {
	store := ratelimit.NewMemoryStore(0)
	_, err := ratelimit.New("api", 0, time.Minute, store)
	assert.Error(t, err)
	_, err = ratelimit.New("api", 1, 0, store)
	assert.Error(t, err)
	_, err = ratelimit.New("api", 1, time.Minute, nil)
	assert.Error(t, err)
}

func TestLimiter_FixedWindow(t *testing.T) {
	clock := newClock()
	store := ratelimit.NewMemoryStore(0).WithClock(clock.Now)
	l, err := ratelimit.New("strict", 3, time.Minute, store)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 3-i, d.Remaining)
		assert.Equal(t, clock.Now().Add(time.Minute), d.Reset)
	}

	d, err := l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)

	// other clients have their own window
	d, err = l.Allow(ctx, "5.6.7.8")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// the window opens again once reset has passed
	clock.Advance(time.Minute + time.Millisecond)
	d, err = l.Allow(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Remaining)
}

func TestLimiter_NamesDoNotShareCounters(t *testing.T) {
	store := ratelimit.NewMemoryStore(0)
	api, _ := ratelimit.New("api", 1, time.Minute, store)
	strict, _ := ratelimit.New("strict", 1, time.Minute, store)

	d, err := api.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	d, err = strict.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryStore_SweepsExpiredWindows(t *testing.T) {
	clock := newClock()
	store := ratelimit.NewMemoryStore(4).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Hit(ctx, fmt.Sprintf("k%d", i), time.Second)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, store.Len())

	clock.Advance(2 * time.Second)
	_, _, err := store.Hit(ctx, "fresh", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_SweepsAtMostOncePerWindow(t *testing.T) {
	clock := newClock()
	store := ratelimit.NewMemoryStore(4).WithClock(clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _, err := store.Hit(ctx, fmt.Sprintf("short%d", i), 100*time.Millisecond)
		require.NoError(t, err)
	}
	// over the cap with every window live: this sweep removes nothing
	_, _, err := store.Hit(ctx, "a", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 6, store.Len())

	// the short windows have expired, but the last sweep is younger than the window
	clock.Advance(200 * time.Millisecond)
	_, _, err = store.Hit(ctx, "b", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 7, store.Len())

	clock.Advance(10 * time.Second)
	_, _, err = store.Hit(ctx, "c", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len(), "only b and c are still live")
}

func TestMemoryStore_ConcurrentHits(t *testing.T) {
	store := ratelimit.NewMemoryStore(0)
	l, _ := ratelimit.New("api", 50, time.Minute, store)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Allow(context.Background(), "same")
			if err == nil && d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestDecision_RetryAfter(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		reset time.Time
		want  time.Duration
	}{
		{now.Add(-time.Second), 0},
		{now, 0},
		{now.Add(300 * time.Millisecond), time.Second},
		{now.Add(2 * time.Second), 2 * time.Second},
		{now.Add(2*time.Second + time.Nanosecond), 3 * time.Second},
	}
	for _, tt := range tests {
		d := ratelimit.Decision{Reset: tt.reset}
		assert.Equal(t, tt.want, d.RetryAfter(now), "reset %v", tt.reset)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := ratelimit.NewRedisStore(client, "")
	l, err := ratelimit.New("strict", 2, time.Minute, store)
	require.NoError(t, err)
	ctx := context.Background()

	d, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)
	assert.WithinDuration(t, time.Now().Add(time.Minute), d.Reset, 2*time.Second)
	assert.True(t, mr.Exists("rate_limit:strict:ip"))
	assert.Equal(t, time.Minute, mr.TTL("rate_limit:strict:ip"))

	d, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Zero(t, d.Remaining)

	mr.FastForward(time.Minute + time.Second)
	d, err = l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	l, _ := ratelimit.New("api", 1, time.Minute, ratelimit.NewRedisStore(client, "rl:"))
	_, err := l.Allow(context.Background(), "ip")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ratelimit.ErrRateLimited))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := ratelimit.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = ratelimit.NewRedisClient(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
