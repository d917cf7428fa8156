package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Enthusiasm-c/monito-web-sub006/internal/domain"
)

type cacheItem struct {
	result     domain.StandardizationResult
	expiration time.Time
}

// StandardizationCache is a thread-safe in-memory TTL cache for AI
// standardization results. The same misspelled invoice line tends to recur
// across uploads, and the API is the slowest collaborator in the pipeline.
type StandardizationCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	ttl   time.Duration
}

// NewStandardizationCache creates a cache whose entries live for ttl.
func NewStandardizationCache(ttl time.Duration) *StandardizationCache {
	c := &StandardizationCache{
		data: make(map[string]cacheItem),
		ttl:  ttl,
	}
	go c.cleanupExpired()
	return c
}

// Get returns the cached result for the key, if present and unexpired.
func (c *StandardizationCache) Get(key string) (*domain.StandardizationResult, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, false
	}
	result := item.result
	return &result, true
}

// Set stores a result under the key.
func (c *StandardizationCache) Set(key string, result *domain.StandardizationResult) {
	if result == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		result:     *result,
		expiration: time.Now().Add(c.ttl),
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *StandardizationCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries from the cache periodically
func (c *StandardizationCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// CachedStandardizer wraps a standardizer with the cache. Only successful
// answers are cached; failures stay retryable.
type CachedStandardizer struct {
	inner domain.Standardizer
	cache *StandardizationCache
}

// NewCachedStandardizer decorates inner with result caching.
func NewCachedStandardizer(inner domain.Standardizer, cache *StandardizationCache) *CachedStandardizer {
	return &CachedStandardizer{inner: inner, cache: cache}
}

// Standardize serves repeated names from the cache, keyed case-insensitively.
func (s *CachedStandardizer) Standardize(ctx context.Context, name, unit string, quantity, price float64) (*domain.StandardizationResult, error) {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(unit)
	if result, ok := s.cache.Get(key); ok {
		return result, nil
	}
	result, err := s.inner.Standardize(ctx, name, unit, quantity, price)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, result)
	return result, nil
}
