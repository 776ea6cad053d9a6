package docmerge

import (
	"container/list"
	"encoding/hex"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// CacheConfig contains configuration options for the token cache
type CacheConfig struct {
	// MaxSize is the maximum number of scans to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached scans. 0 means no expiration.
	TTL time.Duration
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
}

// TokenCache keeps the token streams of recently scanned templates, keyed
// by a digest of their text. Element trees are never cached: every build
// assigns fresh identifiers.
type TokenCache struct {
	mu     sync.Mutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key     string
	tokens  []Token
	expiry  time.Time
	element *list.Element
}

// NewTokenCache creates a token cache sized from the global configuration
func NewTokenCache() *TokenCache {
	config := GetGlobalConfig()
	return NewTokenCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTokenCacheWithConfig creates a new token cache with the given configuration
func NewTokenCacheWithConfig(config CacheConfig) *TokenCache {
	return &TokenCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// CacheKey returns the digest used to key input.
func CacheKey(input string) string {
	sum := blake3.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// Scan returns the cached token stream for input, scanning and storing it
// on a miss.
func (tc *TokenCache) Scan(input string) []Token {
	if tc == nil || tc.config.MaxSize <= 0 {
		return Scan(input)
	}

	key := CacheKey(input)
	if tokens, ok := tc.Get(key); ok {
		return tokens
	}

	tokens := Scan(input)
	tc.Set(key, tokens)
	return tokens
}

// Get retrieves a token stream without scanning
func (tc *TokenCache) Get(key string) ([]Token, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		tc.misses++
		return nil, false
	}

	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		tc.removeLocked(entry)
		tc.misses++
		return nil, false
	}

	tc.lru.MoveToFront(entry.element)
	tc.hits++
	return entry.tokens, true
}

// Set stores a token stream, evicting the least recently used entry when full
func (tc *TokenCache) Set(key string, tokens []Token) {
	if tc.config.MaxSize <= 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		entry.tokens = tokens
		if tc.config.TTL > 0 {
			entry.expiry = time.Now().Add(tc.config.TTL)
		}
		tc.lru.MoveToFront(entry.element)
		return
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		if oldest := tc.lru.Back(); oldest != nil {
			tc.removeLocked(oldest.Value.(*cacheEntry))
		}
	}

	entry := &cacheEntry{
		key:    key,
		tokens: tokens,
	}
	if tc.config.TTL > 0 {
		entry.expiry = time.Now().Add(tc.config.TTL)
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry

	logger := GetLogger()
	if logger.IsDebugMode() {
		logger.WithFields(Fields{
			"key":         key[:12],
			"token_count": len(tokens),
			"size":        tc.lru.Len(),
		}).Debug("Cached token stream")
	}
}

// Remove drops a single entry
func (tc *TokenCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if entry, exists := tc.cache[key]; exists {
		tc.removeLocked(entry)
	}
}

func (tc *TokenCache) removeLocked(entry *cacheEntry) {
	delete(tc.cache, entry.key)
	tc.lru.Remove(entry.element)
}

// Clear removes every cached entry
func (tc *TokenCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru.Init()
}

// Size returns the number of cached entries
func (tc *TokenCache) Size() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return tc.lru.Len()
}

// Stats returns a snapshot of cache counters
func (tc *TokenCache) Stats() CacheStats {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return CacheStats{
		Size:    tc.lru.Len(),
		MaxSize: tc.config.MaxSize,
		Hits:    tc.hits,
		Misses:  tc.misses,
	}
}
