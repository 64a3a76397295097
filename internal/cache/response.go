// ABOUTME: Thread-safe bounded TTL cache for readiness verdicts.
// ABOUTME: FIFO eviction at capacity, lazy expiry on get, periodic sweep on put.
package cache

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/readiness/internal/models"
)

// sweepEvery triggers an active expiry sweep after this many puts.
const sweepEvery = 10

type entry struct {
	payload   any
	expiresAt time.Time
}

// ResponseCache guards the expensive readiness computation. It is shared
// process-wide, bounded by capacity with FIFO eviction, and entries expire
// after a fixed TTL. All operations are linearized by a single mutex.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string
	capacity int
	ttl      time.Duration
	puts     int
	now      func() time.Time
	logger   *zap.Logger
}

// New creates a ResponseCache with the given capacity and TTL.
func New(capacity int, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	if capacity <= 0 {
		capacity = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseCache{
		entries:  make(map[string]entry),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Key builds the cache key for a (date, locale) pair. An empty locale maps
// to the default.
func Key(date time.Time, locale string) string {
	if locale == "" {
		locale = "en"
	}
	return fmt.Sprintf("%s|%s", models.DateKey(date), locale)
}

// Get returns the cached payload for key, or nil and false on a miss.
// Expired entries are deleted on read and reported as misses.
func (c *ResponseCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e.payload, true
}

// Put stores a payload under key. When the cache is at capacity and the
// key is new, the oldest-inserted key is evicted first. Every sweepEvery-th
// put also removes all expired entries; the sweep is best-effort and never
// propagates a failure to the caller.
func (c *ResponseCache) Put(key string, payload any) {
	c.mu.Lock()
	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.capacity && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{payload: payload, expiresAt: c.now().Add(c.ttl)}
	c.puts++
	shouldSweep := c.puts%sweepEvery == 0
	c.mu.Unlock()

	if shouldSweep {
		c.sweep()
	}
}

// Clear empties the cache. Called whenever upstream source data changes so
// stale verdicts cannot outlive a known data change within their TTL.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

// Len reports the current number of cached entries.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep removes all expired entries. Cache maintenance is an optimization,
// never a correctness requirement, so any panic is swallowed and logged.
func (c *ResponseCache) sweep() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("cache sweep failed", zap.Any("panic", r))
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			c.remove(key)
		}
	}
}

// remove deletes a key from both the map and the FIFO order. Caller must
// hold the mutex.
func (c *ResponseCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
