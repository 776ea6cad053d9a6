package docmerge

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTokenCache_Basic(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10})
	input := "Hello {{name}}"

	first := cache.Scan(input)
	second := cache.Scan(input)

	if diff := cmp.Diff(Scan(input), first); diff != "" {
		t.Errorf("cached scan differs from Scan (-want +got):\n%s", diff)
	}
	if &first[0] != &second[0] {
		t.Error("expected second scan to come from the cache")
	}

	stats := cache.Stats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("Stats() = %+v, want 1 hit, 1 miss, size 1", stats)
	}
}

func TestTokenCache_Disabled(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 0})
	cache.Scan("{{a}}")
	cache.Scan("{{a}}")

	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0 when disabled", cache.Size())
	}

	var nilCache *TokenCache
	if got := nilCache.Scan("{{a}}"); len(got) != 1 {
		t.Errorf("nil cache Scan returned %d tokens, want 1", len(got))
	}
}

func TestTokenCache_Eviction(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 2})

	cache.Set("a", nil)
	cache.Set("b", nil)
	cache.Get("a") // a becomes most recent
	cache.Set("c", nil)

	if _, ok := cache.Get("b"); ok {
		t.Error("expected least recently used entry to be evicted")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("expected recently used entry to survive")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("expected newest entry to be cached")
	}
	if cache.Size() != 2 {
		t.Errorf("Size() = %d, want 2", cache.Size())
	}
}

func TestTokenCache_TTL(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10, TTL: 20 * time.Millisecond})
	cache.Set("k", []Token{{Kind: TokenText, Raw: "x"}})

	if _, ok := cache.Get("k"); !ok {
		t.Fatal("expected entry before expiry")
	}

	time.Sleep(40 * time.Millisecond)

	if _, ok := cache.Get("k"); ok {
		t.Error("expected entry to expire")
	}
	if cache.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expiry", cache.Size())
	}
}

func TestTokenCache_RemoveAndClear(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 10})
	cache.Scan("one")
	cache.Scan("two")

	cache.Remove(CacheKey("one"))
	if cache.Size() != 1 {
		t.Errorf("Size() = %d after Remove, want 1", cache.Size())
	}

	cache.Clear()
	if cache.Size() != 0 {
		t.Errorf("Size() = %d after Clear, want 0", cache.Size())
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("{{a}}")
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex characters", len(a))
	}
	if a != CacheKey("{{a}}") {
		t.Error("CacheKey is not deterministic")
	}
	if a == CacheKey("{{b}}") {
		t.Error("different inputs produced the same key")
	}
}

func TestTokenCache_Concurrent(t *testing.T) {
	cache := NewTokenCacheWithConfig(CacheConfig{MaxSize: 5})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := fmt.Sprintf("{{field_%d}}", i%8)
			tokens := cache.Scan(input)
			if len(tokens) != 1 || tokens[0].Name != fmt.Sprintf("field_%d", i%8) {
				t.Errorf("unexpected tokens for %q: %v", input, tokens)
			}
		}(i)
	}
	wg.Wait()

	if cache.Size() > 5 {
		t.Errorf("Size() = %d, exceeds max 5", cache.Size())
	}
}
