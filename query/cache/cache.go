// Package cache memoizes rewritten SQL templates.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/satishbabariya/pdo-go/query/placeholder"
)

// DefaultSize is the number of templates kept when no size is configured.
const DefaultSize = 512

// Stats represents cache statistics
type Stats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
	HitRate   float64
}

type entry struct {
	dialect string
	cmd     *placeholder.Command
}

// Cache keeps rewritten commands keyed by dialect and template text.
// Commands are immutable, so one cached value may back many statements.
// A Cache is safe for concurrent use.
type Cache struct {
	lru       *expirable.LRU[uint64, entry]
	maxSize   int
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates a cache holding up to size templates for at most ttl.
// A zero ttl keeps entries until they are evicted by size.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	c := &Cache{maxSize: size}
	c.lru = expirable.NewLRU[uint64, entry](size, func(uint64, entry) {
		c.evictions.Add(1)
	}, ttl)
	return c
}

// Key hashes a (dialect, template) pair.
func Key(dialect, template string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(dialect)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(template)
	return d.Sum64()
}

// Get returns the cached command for template under dialect.
func (c *Cache) Get(dialect, template string) (*placeholder.Command, bool) {
	e, ok := c.lru.Get(Key(dialect, template))
	if !ok || e.dialect != dialect || e.cmd.Template != template {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.cmd, true
}

// Put stores cmd for template under dialect.
func (c *Cache) Put(dialect string, cmd *placeholder.Command) {
	c.lru.Add(Key(dialect, cmd.Template), entry{dialect: dialect, cmd: cmd})
}

// Rewrite returns the cached command or rewrites template and caches the result.
// Templates that fail to rewrite are not cached.
func (c *Cache) Rewrite(dialect, template string, format placeholder.FormatFunc) (*placeholder.Command, error) {
	if cmd, ok := c.Get(dialect, template); ok {
		return cmd, nil
	}
	cmd, err := placeholder.Rewrite(template, format)
	if err != nil {
		return nil, err
	}
	c.Put(dialect, cmd)
	return cmd, nil
}

// Invalidate removes a single template.
func (c *Cache) Invalidate(dialect, template string) {
	c.lru.Remove(Key(dialect, template))
}

// Clear removes all entries and resets statistics.
func (c *Cache) Clear() {
	c.lru.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// GetStats returns cache statistics
func (c *Cache) GetStats() Stats {
	stats := Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Size:      c.lru.Len(),
		MaxSize:   c.maxSize,
		Evictions: c.evictions.Load(),
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}
