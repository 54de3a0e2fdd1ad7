// Package cache is a small in-memory TTL cache for harvested review
// responses. Harvesting one page takes minutes of browser time, so
// clients polling the same business benefit from an opt-in cached read.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"mapreviews/models"
)

// entry holds a cached response with its creation timestamp.
type entry struct {
	response  *models.ReviewsResponse
	createdAt time.Time
}

// Cache is a simple in-memory cache for review responses.
// It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict entries older
// than 1 hour.
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the page URL.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get retrieves a cached response if it exists and is younger than
// maxAgeMs milliseconds. If maxAgeMs <= 0, no lookup is performed.
// The returned copy is marked Cached.
func (c *Cache) Get(key string, maxAgeMs int) (*models.ReviewsResponse, bool) {
	if maxAgeMs <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Since(e.createdAt) > time.Duration(maxAgeMs)*time.Millisecond {
		return nil, false
	}

	resp := *e.response
	resp.Cached = true
	return &resp, true
}

// Set stores a response. At capacity, the oldest entry is evicted.
func (c *Cache) Set(key string, resp *models.ReviewsResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.store) >= c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range c.store {
			if oldestKey == "" || e.createdAt.Before(oldestAt) {
				oldestKey, oldestAt = k, e.createdAt
			}
		}
		delete(c.store, oldestKey)
	}

	c.store[key] = &entry{response: resp, createdAt: time.Now()}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
