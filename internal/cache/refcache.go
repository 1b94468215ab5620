// Package cache memoises parsed reference strings.
package cache

import (
	"strings"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/FocuswithJustin/versekit/core/passage"
)

// DefaultTTL is used when New is given a zero TTL.
const DefaultTTL = 10 * time.Minute

// Stats reports cache effectiveness.
type Stats struct {
	Hits   int64
	Misses int64
	Items  int
}

// RefCache maps reference text to the passage it parses to. Cached passages
// are never handed out directly: every hit returns a fresh clone, so callers
// may mutate what they get.
type RefCache struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache whose entries expire after ttl. A negative ttl keeps
// entries until Clear.
func New(ttl time.Duration) *RefCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	cleanup := ttl * 2
	if ttl < 0 {
		ttl, cleanup = gocache.NoExpiration, 0
	}
	return &RefCache{cache: gocache.New(ttl, cleanup)}
}

func key(refs string, kind passage.Kind) string {
	return kind.String() + "|" + strings.TrimSpace(refs)
}

// Parse is passage.Parse with memoisation keyed on the trimmed text and the
// passage kind. Errors are not cached.
func (c *RefCache) Parse(refs string, kind passage.Kind) (passage.Passage, error) {
	k := key(refs, kind)
	if v, found := c.cache.Get(k); found {
		c.hits.Add(1)
		return v.(passage.Passage).Clone(), nil
	}
	c.misses.Add(1)

	p, err := passage.Parse(refs, passage.WithKind(kind))
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(k, p.Clone())
	return p, nil
}

// Name returns the canonical name of refs.
func (c *RefCache) Name(refs string) (string, error) {
	p, err := c.Parse(refs, passage.KindRanged)
	if err != nil {
		return "", err
	}
	return p.Name(), nil
}

// Delete forgets refs for every kind.
func (c *RefCache) Delete(refs string) {
	for _, kind := range []passage.Kind{passage.KindRanged, passage.KindBitwise, passage.KindTally} {
		c.cache.Delete(key(refs, kind))
	}
}

// Clear removes every entry and resets the counters.
func (c *RefCache) Clear() {
	c.cache.Flush()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns the current counters.
func (c *RefCache) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Items:  c.cache.ItemCount(),
	}
}
