package properties

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/casalia/realty-backend/pkg/logger"
	"github.com/casalia/realty-backend/pkg/pagination"
	"github.com/casalia/realty-backend/pkg/redis"
)

const cacheScope = "properties"

// CacheStore is the redis surface the list cache needs. May be nil.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	CacheKey(scope, fingerprint string) string
}

// listCache is a read-through cache for list queries. Entries are keyed by a
// fingerprint of the query plus a scope-wide generation counter; bumping the
// counter on writes orphans every cached page at once without touching them.
type listCache struct {
	store CacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func newListCache(store CacheStore, ttl time.Duration, logg *logger.Logger) *listCache {
	return &listCache{store: store, ttl: ttl, logg: logg}
}

func (c *listCache) enabled() bool {
	return c.store != nil && c.ttl > 0
}

// Lookup returns the cached page for the query, or nil on miss or cache trouble.
func (c *listCache) Lookup(ctx context.Context, params ListParams) *pagination.Page[View] {
	if !c.enabled() {
		return nil
	}
	key, err := c.entryKey(ctx, params)
	if err != nil {
		c.warn(ctx, "cache.key.failed", err)
		return nil
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) {
			c.warn(ctx, "cache.get.failed", err)
		}
		return nil
	}
	var page pagination.Page[View]
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		c.warn(ctx, "cache.decode.failed", err)
		return nil
	}
	return &page
}

// Store saves the page under the query fingerprint, best effort.
func (c *listCache) Store(ctx context.Context, params ListParams, page *pagination.Page[View]) {
	if !c.enabled() || page == nil {
		return
	}
	key, err := c.entryKey(ctx, params)
	if err != nil {
		c.warn(ctx, "cache.key.failed", err)
		return
	}
	payload, err := json.Marshal(page)
	if err != nil {
		c.warn(ctx, "cache.encode.failed", err)
		return
	}
	if err := c.store.Set(ctx, key, string(payload), c.ttl); err != nil {
		c.warn(ctx, "cache.set.failed", err)
	}
}

// Invalidate bumps the generation counter so stale pages stop resolving.
func (c *listCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if _, err := c.store.Incr(ctx, c.generationKey()); err != nil {
		c.warn(ctx, "cache.invalidate.failed", err)
	}
}

func (c *listCache) entryKey(ctx context.Context, params ListParams) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	canonical, err := json.Marshal(struct {
		Filters ListFilters `json:"filters"`
		Page    int         `json:"page"`
		Limit   int         `json:"limit"`
	}{params.Filters, params.Page, params.Limit})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	fingerprint := fmt.Sprintf("g%d:%s", gen, hex.EncodeToString(sum[:16]))
	return c.store.CacheKey(cacheScope, fingerprint), nil
}

func (c *listCache) generation(ctx context.Context) (int64, error) {
	raw, err := c.store.Get(ctx, c.generationKey())
	if err != nil {
		if redis.IsMiss(err) {
			return 0, nil
		}
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *listCache) generationKey() string {
	return c.store.CacheKey(cacheScope, "generation")
}

func (c *listCache) warn(ctx context.Context, event string, err error) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), event)
}
