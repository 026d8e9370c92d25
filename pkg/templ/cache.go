package templ

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// CacheConfig bounds a TemplateCache.
type CacheConfig struct {
	// MaxSize is the number of templates kept. Zero or less disables the cache.
	MaxSize int
	// TTL is how long an entry stays valid. Zero keeps entries until evicted.
	TTL time.Duration
}

// TemplateCache keeps the raw bytes of recently used templates. Builds change
// the document they run on, so every load decodes a fresh document from the
// cached bytes.
type TemplateCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key     string
	data    []byte
	expiry  time.Time
	element *list.Element
}

// NewTemplateCache sizes a cache from the global configuration.
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// Load returns the cached bytes for key, calling read to fill the cache on a
// miss.
func (tc *TemplateCache) Load(key string, read func() ([]byte, error)) ([]byte, error) {
	if data, ok := tc.Get(key); ok {
		return data, nil
	}
	if read == nil {
		return nil, errors.New("template not in cache and no reader provided")
	}
	data, err := read()
	if err != nil {
		return nil, err
	}
	tc.Set(key, data)
	return data, nil
}

// Get returns the bytes cached under key and marks them recently used.
func (tc *TemplateCache) Get(key string) ([]byte, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return nil, false
	}
	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		tc.removeLocked(entry)
		return nil, false
	}
	tc.lru.MoveToFront(entry.element)
	return entry.data, true
}

// Set stores data under key, evicting the least recently used entries when
// the cache is full.
func (tc *TemplateCache) Set(key string, data []byte) {
	if tc.config.MaxSize <= 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	expiry := time.Time{}
	if tc.config.TTL > 0 {
		expiry = time.Now().Add(tc.config.TTL)
	}

	if existing, exists := tc.cache[key]; exists {
		existing.data = data
		existing.expiry = expiry
		tc.lru.MoveToFront(existing.element)
		return
	}

	for tc.lru.Len() >= tc.config.MaxSize {
		tc.removeLocked(tc.lru.Back().Value.(*cacheEntry))
	}

	entry := &cacheEntry{key: key, data: data, expiry: expiry}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		tc.removeLocked(entry)
	}
}

func (tc *TemplateCache) removeLocked(entry *cacheEntry) {
	delete(tc.cache, entry.key)
	tc.lru.Remove(entry.element)
}

// Clear drops every entry.
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru = list.New()
}

// Size returns the number of entries.
func (tc *TemplateCache) Size() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.cache)
}

func (tc *TemplateCache) Close() error {
	tc.Clear()
	return nil
}
