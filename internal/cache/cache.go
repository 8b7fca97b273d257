// Package cache provides a time-bounded in-memory cache used in front
// of the persistence layer. The cache is a plain component with no
// knowledge of the database: callers read through it and repopulate it
// on a miss, and every write path is responsible for invalidating the
// keys it touches.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the window after which an entry is treated as absent.
const DefaultTTL = 5 * time.Minute

// Key prefixes, by convention. Mutations with a blast radius wider
// than one key invalidate a whole prefix.
const (
	PrefixFlashcard     = "flashcard:"
	PrefixFlashcards    = "flashcards:"
	PrefixCategory      = "category:"
	PrefixCategoryStats = "categorystats:"
	PrefixUserStats     = "userstats:"
)

// CategoriesKey is the cache key for the full category list.
const CategoriesKey = "categories"

// FlashcardKey returns the cache key for a single flashcard.
func FlashcardKey(cardID int64) string {
	return fmt.Sprintf("%s%d", PrefixFlashcard, cardID)
}

// FlashcardsKey returns the cache key for a user's card list in a category.
func FlashcardsKey(userID, categoryID int64) string {
	return fmt.Sprintf("%s%d:%d", PrefixFlashcards, userID, categoryID)
}

// CategoryKey returns the cache key for a single category.
func CategoryKey(categoryID int64) string {
	return fmt.Sprintf("%s%d", PrefixCategory, categoryID)
}

// CategoryStatsKey returns the cache key for a user's per-category stats.
func CategoryStatsKey(userID int64) string {
	return fmt.Sprintf("%s%d", PrefixCategoryStats, userID)
}

// UserStatsKey returns the cache key for a user's aggregate counters.
func UserStatsKey(userID int64) string {
	return fmt.Sprintf("%s%d", PrefixUserStats, userID)
}

type entry struct {
	value     any
	writtenAt time.Time
}

// Cache is a TTL-bounded key/value store safe for concurrent use.
// Entries are replaced whole; there is no partial mutation of a cached
// value. Construct one per process and pass it by handle.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry

	// now is swapped out in tests to control entry age.
	now func() time.Time
}

// New creates a cache with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, or (nil, false) when the key
// is absent or its entry has outlived the TTL. Expired entries are
// treated as absent even before the sweeper removes them.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.writtenAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

// Put stores value under key, overwriting any previous entry and
// stamping the write time.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, writtenAt: c.now()}
	c.mu.Unlock()
}

// Invalidate removes a single entry. Removing a missing key is a no-op.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix removes every entry whose key starts with prefix.
// Used after mutations whose blast radius is broader than one key,
// e.g. InvalidatePrefix(PrefixFlashcards) after a category delete.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
}

// DeleteExpired drops entries older than the TTL and returns how many
// were removed. Correctness never depends on this running: Get already
// refuses stale entries. It only keeps the map from growing without
// bound.
func (c *Cache) DeleteExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.writtenAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
