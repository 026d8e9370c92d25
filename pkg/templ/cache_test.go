package templ

import (
	"errors"
	"testing"
	"time"
)

func TestTemplateCache_Basic(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})

	if _, ok := cache.Get("a.docx"); ok {
		t.Fatal("Expected miss on an empty cache")
	}
	cache.Set("a.docx", []byte("A"))
	data, ok := cache.Get("a.docx")
	if !ok || string(data) != "A" {
		t.Errorf("Get() = %q, %v, want A, true", data, ok)
	}
	cache.Set("a.docx", []byte("A2"))
	if data, _ := cache.Get("a.docx"); string(data) != "A2" {
		t.Errorf("Get() after update = %q, want A2", data)
	}
	if cache.Size() != 1 {
		t.Errorf("Size() = %d, want 1", cache.Size())
	}

	cache.Remove("a.docx")
	if _, ok := cache.Get("a.docx"); ok {
		t.Error("Expected miss after Remove")
	}
}

func TestTemplateCache_LRUEviction(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 2})
	cache.Set("a", []byte("a"))
	cache.Set("b", []byte("b"))
	// touching a makes b the least recently used
	cache.Get("a")
	cache.Set("c", []byte("c"))

	if _, ok := cache.Get("b"); ok {
		t.Error("Expected b to be evicted")
	}
	for _, key := range []string{"a", "c"} {
		if _, ok := cache.Get(key); !ok {
			t.Errorf("Expected %s to be cached", key)
		}
	}
	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestTemplateCache_TTL(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10, TTL: 20 * time.Millisecond})
	cache.Set("a", []byte("a"))
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("Expected a fresh entry to be cached")
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok := cache.Get("a"); ok {
		t.Error("Expected the entry to expire")
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expiry", cache.Size())
	}
}

func TestTemplateCache_Load(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})
	reads := 0
	read := func() ([]byte, error) {
		reads++
		return []byte("data"), nil
	}
	for i := 0; i < 3; i++ {
		data, err := cache.Load("t", read)
		if err != nil || string(data) != "data" {
			t.Fatalf("Load() = %q, %v", data, err)
		}
	}
	if reads != 1 {
		t.Errorf("read called %d times, want 1", reads)
	}

	failure := errors.New("boom")
	if _, err := cache.Load("u", func() ([]byte, error) { return nil, failure }); !errors.Is(err, failure) {
		t.Errorf("Load() error = %v, want %v", err, failure)
	}
	if _, ok := cache.Get("u"); ok {
		t.Error("A failed read must not be cached")
	}
	if _, err := cache.Load("v", nil); err == nil {
		t.Error("Load() with nil reader error = nil")
	}
}

func TestTemplateCache_Disabled(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 0})
	reads := 0
	for i := 0; i < 2; i++ {
		cache.Load("t", func() ([]byte, error) {
			reads++
			return []byte("x"), nil
		})
	}
	if reads != 2 {
		t.Errorf("read called %d times, want 2 with caching disabled", reads)
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0", cache.Size())
	}
}

func TestTemplateCache_Clear(t *testing.T) {
	cache := NewTemplateCacheWithConfig(CacheConfig{MaxSize: 10})
	cache.Set("a", nil)
	cache.Set("b", nil)
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d after Close, want 0", cache.Size())
	}
	cache.Set("c", nil)
	if cache.Size() != 1 {
		t.Errorf("cache unusable after Clear: Size() = %d", cache.Size())
	}
}
