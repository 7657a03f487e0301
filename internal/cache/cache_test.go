package cache

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(maxEntries int) (*Cache, *time.Time) {
	c := New(true, maxEntries, time.Minute)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(10)
	etag := c.Set("k1", []byte(`{"mmr":8000}`), 0)

	data, gotETag, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, `{"mmr":8000}`, string(data))
	assert.Equal(t, etag, gotETag)
}

func TestCache_MissOnAbsent(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(10)
	_, _, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10)
	c.Set("k1", []byte("v"), 10*time.Second)

	*clock = clock.Add(11 * time.Second)

	_, _, ok := c.Get("k1")
	assert.False(t, ok)
	// Lazy expiry removes the entry, not just hides it.
	assert.Equal(t, 0, c.Len())
}

func TestCache_NotExpiredAtBoundary(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10)
	c.Set("k1", []byte("v"), 10*time.Second)

	*clock = clock.Add(9 * time.Second)

	_, _, ok := c.Get("k1")
	assert.True(t, ok)
}

func TestCache_FIFOBound(t *testing.T) {
	t.Parallel()

	const max = 1000
	c, _ := newTestCache(max)
	for i := 0; i < max+50; i++ {
		c.Set(fmt.Sprintf("key-%04d", i), []byte("v"), 0)
	}

	require.Equal(t, max, c.Len())

	// The oldest 50 keys were evicted, everything after survives.
	for i := 0; i < 50; i++ {
		_, _, ok := c.Get(fmt.Sprintf("key-%04d", i))
		assert.False(t, ok, "key-%04d should have been evicted", i)
	}
	for i := 50; i < max+50; i++ {
		_, _, ok := c.Get(fmt.Sprintf("key-%04d", i))
		assert.True(t, ok, "key-%04d should still be cached", i)
	}
}

func TestCache_OverwriteKeepsFIFOPosition(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(2)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)
	// Overwrite does not refresh a's queue position.
	c.Set("a", []byte("1b"), 0)
	c.Set("c", []byte("3"), 0)

	_, _, ok := c.Get("a")
	assert.False(t, ok, "a was oldest and should be evicted despite the overwrite")
	_, _, ok = c.Get("b")
	assert.True(t, ok)
	_, _, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCache_OverwriteDoesNotGrow(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(10)
	for i := 0; i < 20; i++ {
		c.Set("same", []byte("v"), 0)
	}
	assert.Equal(t, 1, c.Len())
}

func TestCache_Invalidate(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(10)
	c.Set("player-details|name:Bob", []byte("bob"), 0)
	c.Set("player-details|name:Alice", []byte("alice"), 0)
	c.Set("leaderboard|skip:0", []byte("page"), 0)

	removed := c.Invalidate(FamilyPredicate("player-details"))
	assert.Equal(t, 2, removed)

	_, _, ok := c.Get("player-details|name:Bob")
	assert.False(t, ok)
	_, _, ok = c.Get("player-details|name:Alice")
	assert.False(t, ok)
	_, _, ok = c.Get("leaderboard|skip:0")
	assert.True(t, ok, "other families survive invalidation")
}

func TestCache_InvalidateKeepsEvictionOrder(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(3)
	c.Set("x|1", []byte("v"), 0)
	c.Set("y|1", []byte("v"), 0)
	c.Set("x|2", []byte("v"), 0)

	c.Invalidate(FamilyPredicate("x"))
	require.Equal(t, 1, c.Len())

	c.Set("y|2", []byte("v"), 0)
	c.Set("y|3", []byte("v"), 0)
	c.Set("y|4", []byte("v"), 0)

	// y|1 is the oldest survivor and goes first.
	_, _, ok := c.Get("y|1")
	assert.False(t, ok)
	_, _, ok = c.Get("y|4")
	assert.True(t, ok)
}

func TestCache_Disabled(t *testing.T) {
	t.Parallel()

	c := New(false, 10, time.Minute)
	etag := c.Set("k", []byte("v"), 0)
	assert.True(t, strings.HasPrefix(etag, `W/"`), "disabled cache still computes ETags")

	_, _, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(10)
	c.Set("fresh", []byte("v"), time.Hour)
	c.Set("stale", []byte("v"), time.Second)

	*clock = clock.Add(2 * time.Second)

	stats := c.Stats()
	assert.Equal(t, 2, stats["total_keys"])
	assert.Equal(t, 1, stats["active_keys"])
	assert.Equal(t, 1, stats["expired_keys"])
}

func TestComputeETag_Deterministic(t *testing.T) {
	t.Parallel()

	a := ComputeETag([]byte("same"))
	b := ComputeETag([]byte("same"))
	other := ComputeETag([]byte("different"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
}

func TestCheckETagMatch(t *testing.T) {
	t.Parallel()

	etag := ComputeETag([]byte("body"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}
