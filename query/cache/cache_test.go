package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/pdo-go/query/placeholder"
)

func TestCache_RewriteMemoizes(t *testing.T) {
	c := New(8, 0)

	first, err := c.Rewrite("sqlite", "SELECT * FROM t WHERE id = ?", placeholder.AtName)
	require.NoError(t, err)
	second, err := c.Rewrite("sqlite", "SELECT * FROM t WHERE id = ?", placeholder.AtName)
	require.NoError(t, err)

	assert.Same(t, first, second)
	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 0.5, stats.HitRate, 0.0001)
}

func TestCache_DialectsAreSeparate(t *testing.T) {
	c := New(8, 0)

	lite, err := c.Rewrite("sqlite", "SELECT ?", placeholder.AtName)
	require.NoError(t, err)
	pg, err := c.Rewrite("postgres", "SELECT ?", placeholder.Dollar)
	require.NoError(t, err)

	assert.Equal(t, "SELECT @p0", lite.SQL)
	assert.Equal(t, "SELECT $1", pg.SQL)
	assert.Equal(t, 2, c.GetStats().Size)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	c := New(8, 0)

	_, err := c.Rewrite("sqlite", "SELECT ?, :x", nil)
	require.ErrorIs(t, err, placeholder.ErrMixedPlaceholderStyle)
	assert.Equal(t, 0, c.GetStats().Size)
}

func TestCache_EvictsBeyondSize(t *testing.T) {
	c := New(2, 0)

	for _, q := range []string{"SELECT 1", "SELECT 2", "SELECT 3"} {
		_, err := c.Rewrite("sqlite", q, nil)
		require.NoError(t, err)
	}

	stats := c.GetStats()
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(1), stats.Evictions)

	_, ok := c.Get("sqlite", "SELECT 1")
	assert.False(t, ok)
	_, ok = c.Get("sqlite", "SELECT 3")
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New(4, 0)
	_, err := c.Rewrite("sqlite", "SELECT 1", nil)
	require.NoError(t, err)
	c.Invalidate("sqlite", "SELECT 1")
	_, ok := c.Get("sqlite", "SELECT 1")
	assert.False(t, ok)

	_, err = c.Rewrite("sqlite", "SELECT 2", nil)
	require.NoError(t, err)
	c.Clear()

	stats := c.GetStats()
	assert.Equal(t, 0, stats.Size)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Equal(t, 4, stats.MaxSize)
}
