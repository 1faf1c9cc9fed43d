package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/shared"
)

// InMemoryGeoCache is a process-local read-through cache in front of a
// GeoRepository. It is the default when Redis is not configured; single
// instance deployments get the same lookup behavior without the extra
// infrastructure.
type InMemoryGeoCache struct {
	entries     sync.Map // map[string]*inMemoryGeoEntry
	inner       geo.GeoRepository
	ttl         time.Duration
	negativeTTL time.Duration
}

type inMemoryGeoEntry struct {
	missing   bool
	geo       *geo.Geo
	expiresAt time.Time
}

func (e *inMemoryGeoEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryGeoCacheOption is a functional option for configuring the cache
type InMemoryGeoCacheOption func(*InMemoryGeoCache)

// WithInMemoryGeoCacheTTL overrides the TTL for positive entries
func WithInMemoryGeoCacheTTL(ttl time.Duration) InMemoryGeoCacheOption {
	return func(c *InMemoryGeoCache) {
		c.ttl = ttl
	}
}

// WithInMemoryGeoNegativeTTL overrides the TTL for cached not-found results
func WithInMemoryGeoNegativeTTL(ttl time.Duration) InMemoryGeoCacheOption {
	return func(c *InMemoryGeoCache) {
		c.negativeTTL = ttl
	}
}

// NewInMemoryGeoCache wraps the given repository with an in-memory cache
func NewInMemoryGeoCache(inner geo.GeoRepository, opts ...InMemoryGeoCacheOption) *InMemoryGeoCache {
	c := &InMemoryGeoCache{
		inner:       inner,
		ttl:         defaultGeoCacheTTL,
		negativeTTL: defaultGeoNegativeTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindByCode looks up a geography by canonical code
func (c *InMemoryGeoCache) FindByCode(ctx context.Context, kind geo.GeoKind, code string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("code", kind, code), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByCode(ctx, kind, code)
	})
}

// FindByAbbreviation looks up a geography by postal abbreviation
func (c *InMemoryGeoCache) FindByAbbreviation(ctx context.Context, kind geo.GeoKind, abbreviation string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("abbr", kind, abbreviation), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByAbbreviation(ctx, kind, abbreviation)
	})
}

// FindByName looks up a geography by full name
func (c *InMemoryGeoCache) FindByName(ctx context.Context, kind geo.GeoKind, name string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("name", kind, name), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByName(ctx, kind, name)
	})
}

func (c *InMemoryGeoCache) key(field string, kind geo.GeoKind, value string) string {
	return fmt.Sprintf("%s:%s:%s", field, kind, geo.Normalize(value))
}

func (c *InMemoryGeoCache) lookup(ctx context.Context, key string, find func(context.Context) (*geo.Geo, error)) (*geo.Geo, error) {
	if v, ok := c.entries.Load(key); ok {
		entry := v.(*inMemoryGeoEntry)
		if entry.isExpired() {
			c.entries.Delete(key)
		} else if entry.missing {
			return nil, shared.ErrNotFound
		} else {
			return entry.geo, nil
		}
	}

	g, err := find(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, geo.ErrGeoNotFound) {
			c.entries.Store(key, &inMemoryGeoEntry{missing: true, expiresAt: time.Now().Add(c.negativeTTL)})
		}
		return nil, err
	}

	c.entries.Store(key, &inMemoryGeoEntry{geo: g, expiresAt: time.Now().Add(c.ttl)})
	return g, nil
}

// Ensure InMemoryGeoCache implements geo.GeoRepository
var _ geo.GeoRepository = (*InMemoryGeoCache)(nil)
