package cache

import (
	"context"
	"sync"
	"time"

	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
)

// DefaultExpiration is the idle window after which an entry is evicted.
const DefaultExpiration = 5 * time.Minute

// entry holds a complete result and the time it was last stored or read.
type entry struct {
	result     generator.Result
	lastAccess time.Time
}

// RangeCache memoizes complete generation results by range with sliding
// expiration: every hit pushes the entry's eviction time forward. It is
// safe for concurrent use.
type RangeCache struct {
	mu         sync.Mutex
	items      map[generator.Range]*entry
	expiration time.Duration
	now        func() time.Time
	recorder   metrics.Recorder
	logger     logging.Logger
}

// Option configures a RangeCache.
type Option func(*RangeCache)

// WithExpiration sets the idle window. Non-positive values keep the default.
func WithExpiration(d time.Duration) Option {
	return func(c *RangeCache) {
		if d > 0 {
			c.expiration = d
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *RangeCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRecorder sets the metrics sink.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *RangeCache) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger used by the janitor.
func WithLogger(l logging.Logger) Option {
	return func(c *RangeCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty RangeCache.
func New(opts ...Option) *RangeCache {
	c := &RangeCache{
		items:      make(map[generator.Range]*entry),
		expiration: DefaultExpiration,
		now:        time.Now,
		recorder:   metrics.NopRecorder{},
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Expiration returns the configured idle window.
func (c *RangeCache) Expiration() time.Duration { return c.expiration }

// Lookup returns a copy of the result cached for r. An entry idle for
// longer than the expiration window is removed and reported as absent.
// A hit refreshes the entry.
func (c *RangeCache) Lookup(r generator.Range) (generator.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[r]
	if !ok {
		c.recorder.CacheLookup(false)
		return generator.Result{}, false
	}
	now := c.now()
	if c.expired(e, now) {
		delete(c.items, r)
		c.recorder.CacheEvicted(1)
		c.recorder.CacheLookup(false)
		return generator.Result{}, false
	}
	e.lastAccess = now
	c.recorder.CacheLookup(true)
	return e.result.Clone(), true
}

// Store caches res under r if, and only if, res is complete for r.
// Partial results, including ones with skipped indices, are never cached.
// It reports whether the result was stored.
func (c *RangeCache) Store(r generator.Range, res generator.Result) bool {
	if !res.Complete(r) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[r] = &entry{result: res.Clone(), lastAccess: c.now()}
	c.recorder.CacheStored()
	return true
}

// Sweep removes every expired entry and returns how many were removed.
func (c *RangeCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for r, e := range c.items {
		if c.expired(e, now) {
			delete(c.items, r)
			removed++
		}
	}
	c.recorder.CacheEvicted(removed)
	return removed
}

// Run sweeps the cache every interval until ctx is done.
func (c *RangeCache) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.expiration
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.logger.Debug("cache sweep", logging.Int("evicted", n), logging.Int("remaining", c.Len()))
			}
		}
	}
}

// Len returns the number of entries held, expired ones included until the
// next lookup or sweep removes them.
func (c *RangeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *RangeCache) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastAccess) > c.expiration
}
