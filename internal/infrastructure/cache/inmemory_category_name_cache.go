package cache

import (
	"context"
	"sync"
	"time"

	appcatalog "github.com/ecommerce/product-service/internal/application/catalog"
)

const cleanupInterval = 5 * time.Minute

// entry is a cached name with its expiration; a zero expiresAt never expires
type entry struct {
	name      string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// InMemoryCategoryNameCache implements CategoryNameCache using an in-memory map.
// It is suitable for single-instance deployments and testing.
type InMemoryCategoryNameCache struct {
	mu        sync.RWMutex
	entries   map[int]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCategoryNameCache creates an in-memory cache and starts a
// background goroutine that removes expired entries
func NewInMemoryCategoryNameCache(ttl time.Duration) *InMemoryCategoryNameCache {
	c := &InMemoryCategoryNameCache{
		entries:  make(map[int]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached name and whether it was found
func (c *InMemoryCategoryNameCache) Get(_ context.Context, id int) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[id]
	if !ok || e.expired(c.now()) {
		return "", false, nil
	}
	return e.name, true, nil
}

// Set stores the name of a category
func (c *InMemoryCategoryNameCache) Set(_ context.Context, id int, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{name: name}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[id] = e
	return nil
}

// Invalidate drops the entry of a renamed or deleted category
func (c *InMemoryCategoryNameCache) Invalidate(_ context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, id)
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryCategoryNameCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryCategoryNameCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryCategoryNameCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries
func (c *InMemoryCategoryNameCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, id)
		}
	}
}

// Ensure InMemoryCategoryNameCache implements CategoryNameCache
var _ appcatalog.CategoryNameCache = (*InMemoryCategoryNameCache)(nil)
