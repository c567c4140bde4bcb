package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/v75-value/internal/metrics"
)

// CacheKey returns a stable key for a model and request
func CacheKey(model string, req Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%.4f\x00%d\x00%t", model, req.System, req.Prompt, req.Temperature, req.MaxTokens, req.JSONMode)
	return hex.EncodeToString(h.Sum(nil))
}

// ReplyCache provides in-memory caching for generator replies
type ReplyCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewReplyCache creates a new reply cache
func NewReplyCache(ttl time.Duration, maxSize int) *ReplyCache {
	return &ReplyCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached reply
func (rc *ReplyCache) Get(key string) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if v, found := rc.cache.Get(key); found {
		if reply, ok := v.(string); ok {
			rc.hitCount++
			rc.updateMetrics()
			return reply, true
		}
	}

	rc.missCount++
	rc.updateMetrics()
	return "", false
}

// Set stores a reply. When the cache is full, expired items are dropped first; if it is
// still full the reply is not stored.
func (rc *ReplyCache) Set(key, reply string) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return false
		}
	}

	rc.cache.Set(key, reply, rc.ttl)
	return true
}

// Clear flushes the entire cache
func (rc *ReplyCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ReplyCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.stats()
}

func (rc *ReplyCache) stats() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *ReplyCache) updateMetrics() {
	_, _, ratio := rc.stats()
	metrics.UpdateGeneratorCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (rc *ReplyCache) ItemCount() int {
	return rc.cache.ItemCount()
}
