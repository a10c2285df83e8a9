package source

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores fetched remote template bodies in Redis with a TTL so serve
// mode does not re-download the same template for every request. It is
// best-effort: a broken cache degrades to a plain fetch.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache wraps rdb as a template body cache with the given TTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(url string) string {
	return "demodata:template:" + url
}

// Get returns the cached body for url, if present.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, cacheKey(url)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

// Put stores body for url. Write failures are logged, not returned.
func (c *Cache) Put(ctx context.Context, url string, body []byte) {
	if err := c.rdb.Set(ctx, cacheKey(url), body, c.ttl).Err(); err != nil {
		slog.Warn("template cache write failed", "url", url, "err", err)
	}
}
