package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tinkerloft/opsdesk/internal/model"
)

// Cache defaults; the TTL matches the original deployment's one-hour entry
// expiry.
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = time.Hour
)

// CacheObserver receives cache lookup results, for metrics. May be nil.
type CacheObserver func(hit bool)

// Cached decorates a Store with an expiring lookup cache keyed by normalized
// query fingerprint. It is purely a performance layer: any Store can be used
// without it and the resolver logic is unchanged. Concurrent misses for the
// same fingerprint may each recompute; searches are idempotent and
// side-effect-free, so last write wins.
type Cached struct {
	store    Store
	lru      *expirable.LRU[string, []model.RetrievalMatch]
	observer CacheObserver
}

// NewCached wraps store with a cache of the given size and TTL. Non-positive
// arguments use the defaults.
func NewCached(store Store, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		store: store,
		lru:   expirable.NewLRU[string, []model.RetrievalMatch](size, nil, ttl),
	}
}

// WithObserver sets a lookup observer and returns the cache.
func (c *Cached) WithObserver(obs CacheObserver) *Cached {
	c.observer = obs
	return c
}

// Search implements Store. Cache lookups never fail the pipeline: on a miss
// the underlying store is queried and the result cached.
func (c *Cached) Search(ctx context.Context, query string, topK int) ([]model.RetrievalMatch, error) {
	key := fmt.Sprintf("%s:%d", Fingerprint(query), topK)

	if matches, ok := c.lru.Get(key); ok {
		if c.observer != nil {
			c.observer(true)
		}
		return matches, nil
	}
	if c.observer != nil {
		c.observer(false)
	}

	matches, err := c.store.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		c.lru.Add(key, matches)
	}
	return matches, nil
}

// Purge drops all cached results. Called after a knowledge-base reload so
// stale matches never outlive the entries they point at.
func (c *Cached) Purge() {
	c.lru.Purge()
}

// Fingerprint normalizes a query so trivially distinct phrasings of an
// identical query share a cache entry: case-folded, whitespace-collapsed.
func Fingerprint(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
