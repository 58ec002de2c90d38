package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// DefaultTTL applies when neither Set nor the cache specify one
const DefaultTTL = 30 * time.Minute

// MemoryCache is a size-bounded LRU cache with per-entry expiry
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front is most recently used
	size    int64
	maxSize int64
	ttl     time.Duration
	stats   Stats
	now     func() time.Time
}

type entry struct {
	key    string
	value  []byte
	expiry time.Time
}

func (e *entry) size() int64 {
	return int64(len(e.key) + len(e.value))
}

// NewMemoryCache creates a cache holding at most maxSizeMB mebibytes.
// maxSizeMB <= 0 disables the bound.
func NewMemoryCache(maxSizeMB int64, ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSizeMB * 1024 * 1024,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get retrieves a value and marks it recently used
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.items[key]
	if !ok {
		mc.stats.Misses++
		return nil, false
	}

	e := el.Value.(*entry)
	if mc.now().After(e.expiry) {
		mc.remove(el)
		mc.stats.Misses++
		return nil, false
	}

	mc.order.MoveToFront(el)
	mc.stats.Hits++
	return e.value, true
}

// Set stores a value, evicting least recently used entries to make room.
// A value larger than the whole cache is not stored.
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = mc.ttl
	}
	e := &entry{key: key, value: value, expiry: mc.now().Add(ttl)}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.remove(el)
	}
	if mc.maxSize > 0 && e.size() > mc.maxSize {
		return nil
	}

	for mc.maxSize > 0 && mc.size+e.size() > mc.maxSize {
		oldest := mc.order.Back()
		if oldest == nil {
			break
		}
		mc.remove(oldest)
		mc.stats.Evictions++
	}

	mc.items[key] = mc.order.PushFront(e)
	mc.size += e.size()
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.remove(el)
	}
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	stats := mc.stats
	stats.Entries = len(mc.items)
	stats.Size = mc.size
	stats.MaxSize = mc.maxSize
	return stats
}

// remove drops an element; mc.mu must be held
func (mc *MemoryCache) remove(el *list.Element) {
	e := mc.order.Remove(el).(*entry)
	delete(mc.items, e.key)
	mc.size -= e.size()
}
