package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

// MemoryListCache is the in-process ListCache used when Redis is not
// configured. Entries are JSON encoded like the Redis variant.
type MemoryListCache struct {
	mu    sync.RWMutex
	gen   uint64
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryListCache(ttl time.Duration) *MemoryListCache {
	return &MemoryListCache{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func genPrefix(gen uint64) string {
	return fmt.Sprintf("%d:", gen)
}

func (c *MemoryListCache) Key(ctx context.Context, query url.Values) (string, error) {
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()
	return genPrefix(gen) + queryKey(query), nil
}

func (c *MemoryListCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.now().After(item.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(item.value, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryListCache) Set(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// a key from an earlier generation was resolved before an Invalidate
	if !strings.HasPrefix(key, genPrefix(c.gen)) {
		return nil
	}

	now := c.now()
	// expired entries are swept on write
	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = memoryItem{value: data, expiresAt: now.Add(c.ttl)}
	return nil
}

func (c *MemoryListCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	c.items = make(map[string]memoryItem)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
