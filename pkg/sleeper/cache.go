package sleeper

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// responseCache is a TTL-bounded LRU of raw upstream response bodies,
// keyed by request path. Every Sleeper operation is a read-only lookup,
// so serving a slightly stale body is always safe.
type responseCache struct {
	lru *expirable.LRU[string, []byte]
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	return &responseCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (c *responseCache) get(path string) ([]byte, bool) {
	return c.lru.Get(path)
}

func (c *responseCache) put(path string, body []byte) {
	c.lru.Add(path, body)
}
