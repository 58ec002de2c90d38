package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(1, time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("peaks"), 0))
	got, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("peaks"), got)

	require.NoError(t, c.Set(ctx, "a", []byte("other"), 0))
	got, _ = c.Get(ctx, "a")
	assert.Equal(t, []byte("other"), got)

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(len("a")+len("other")), stats.Size)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(1, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", []byte("x"), time.Second))

	now = now.Add(2 * time.Second)
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(1, time.Minute)
	chunk := bytes.Repeat([]byte{1}, 400*1024)

	require.NoError(t, c.Set(ctx, "a", chunk, 0))
	require.NoError(t, c.Set(ctx, "b", chunk, 0))
	_, ok := c.Get(ctx, "a") // b is now the oldest
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "c", chunk, 0))

	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.LessOrEqual(t, c.Stats().Size, c.Stats().MaxSize)
}

func TestMemoryCacheSkipsOversizedValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(1, time.Minute)

	require.NoError(t, c.Set(ctx, "big", make([]byte, 2*1024*1024), 0))
	_, ok := c.Get(ctx, "big")
	assert.False(t, ok)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)

	for _, key := range []string{"s1/a", "s2/a"} {
		require.NoError(t, c.Set(ctx, key, []byte(key), 0))
	}

	require.NoError(t, c.Delete(ctx, "s2/a"))
	require.NoError(t, c.Delete(ctx, "s2/a"))
	require.NoError(t, c.Delete(ctx, "s1/a"))
	assert.Equal(t, 0, c.Stats().Entries)
	assert.Equal(t, int64(0), c.Stats().Size)
}
