// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_analyzer/internal/feature/marketdata/domain/entity"
	"stock_analyzer/internal/feature/marketdata/usecase"
)

// allInstruments is the key segment for the unfiltered bar list.
// safe never produces "*", so no instrument can share this key.
const allInstruments = "*"

// TTLFunc returns the expiry for a freshly written cache entry.
type TTLFunc func() time.Duration

// CachingBarRepository decorates a BarRepository with Redis caching.
// Reads are served from the cache; every write invalidates the affected
// instrument and the unfiltered list.
type CachingBarRepository struct {
	inner     usecase.BarRepository
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
}

var _ usecase.BarRepository = (*CachingBarRepository)(nil)

// NewCachingBarRepository decorates a BarRepository with Redis caching.
// If ttl is nil, entries live for 5 minutes. If namespace is empty, it uses "bars".
func NewCachingBarRepository(rdb *redis.Client, ttl TTLFunc, inner usecase.BarRepository, namespace string) *CachingBarRepository {
	if ttl == nil {
		ttl = func() time.Duration { return 5 * time.Minute }
	}
	if namespace == "" {
		namespace = "bars"
	}
	return &CachingBarRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Find retrieves bars, checking cache first then falling back to the database.
func (c *CachingBarRepository) Find(ctx context.Context, instrument string) ([]entity.PriceBar, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, instrument)
	}

	key := c.cacheKey(instrument)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceBar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.Find(ctx, instrument)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort). Empty results are not cached so that
	// the first write for a new instrument is visible immediately.
	if len(out) > 0 {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, c.ttl()).Err()
		}
	}
	return out, nil
}

// Create inserts one bar and invalidates its instrument.
func (c *CachingBarRepository) Create(ctx context.Context, bar entity.PriceBar) error {
	if err := c.inner.Create(ctx, bar); err != nil {
		return err
	}
	c.invalidate(ctx, []string{bar.Instrument})
	return nil
}

// UpsertBatch inserts or updates bars and invalidates related cache entries.
func (c *CachingBarRepository) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if err := c.inner.UpsertBatch(ctx, bars); err != nil {
		return err
	}
	if len(bars) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	instruments := make([]string, 0, 1)
	for _, b := range bars {
		if _, ok := seen[b.Instrument]; ok {
			continue
		}
		seen[b.Instrument] = struct{}{}
		instruments = append(instruments, b.Instrument)
	}
	c.invalidate(ctx, instruments)
	return nil
}

// invalidate deletes the keys of the given instruments and the unfiltered list.
// Failures are logged only: the entries expire on their own.
func (c *CachingBarRepository) invalidate(ctx context.Context, instruments []string) {
	if c.rdb == nil {
		return
	}
	keys := make([]string, 0, len(instruments)+1)
	for _, inst := range instruments {
		keys = append(keys, c.cacheKey(inst))
	}
	keys = append(keys, c.cacheKey(""))

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("bar cache invalidation failed", "keys", keys, "error", err)
	}
}

// cacheKey generates a cache key for one instrument, or the unfiltered list when empty.
func (c *CachingBarRepository) cacheKey(instrument string) string {
	if instrument == "" {
		return c.namespace + ":" + allInstruments
	}
	return c.namespace + ":" + safe(instrument)
}

// safe escapes an instrument into a key segment. The escaping is injective,
// so distinct instruments never share a key, and ':' never appears unescaped.
func safe(s string) string {
	return url.QueryEscape(s)
}
