package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sellercentric/backend/internal/domain/geo"
	"github.com/sellercentric/backend/internal/domain/shared"
	"github.com/sellercentric/backend/internal/infrastructure/config"
)

const (
	defaultGeoCacheTTL = 12 * time.Hour
	// Negative entries expire faster so newly seeded geographies
	// become visible without a cache flush.
	defaultGeoNegativeTTL = 5 * time.Minute
)

// geoCacheEntry is the stored representation of a lookup result.
// Missing marks a cached not-found so repeated lookups of unknown
// address strings do not hit the database on every order.
type geoCacheEntry struct {
	Missing bool     `json:"missing,omitempty"`
	Geo     *geo.Geo `json:"geo,omitempty"`
}

// RedisGeoCache is a read-through cache in front of a GeoRepository.
// Geography records are immutable reference data, so entries are only
// ever invalidated by TTL. Redis failures degrade to pass-through.
type RedisGeoCache struct {
	client      *redis.Client
	inner       geo.GeoRepository
	keyPrefix   string
	ttl         time.Duration
	negativeTTL time.Duration
	logger      *zap.Logger
}

// RedisGeoCacheOption is a functional option for configuring the cache
type RedisGeoCacheOption func(*RedisGeoCache)

// WithGeoCacheTTL overrides the TTL for positive entries
func WithGeoCacheTTL(ttl time.Duration) RedisGeoCacheOption {
	return func(c *RedisGeoCache) {
		c.ttl = ttl
	}
}

// WithGeoCacheLogger sets the logger for the cache
func WithGeoCacheLogger(logger *zap.Logger) RedisGeoCacheOption {
	return func(c *RedisGeoCache) {
		c.logger = logger
	}
}

// NewRedisGeoCache connects to Redis and wraps the given repository.
// The connection is verified with a ping before the cache is returned.
func NewRedisGeoCache(cfg *config.RedisConfig, inner geo.GeoRepository, opts ...RedisGeoCacheOption) (*RedisGeoCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisGeoCacheWithClient(client, inner, opts...), nil
}

// NewRedisGeoCacheWithClient wraps an existing Redis client, useful for tests
func NewRedisGeoCacheWithClient(client *redis.Client, inner geo.GeoRepository, opts ...RedisGeoCacheOption) *RedisGeoCache {
	c := &RedisGeoCache{
		client:      client,
		inner:       inner,
		keyPrefix:   "geo:",
		ttl:         defaultGeoCacheTTL,
		negativeTTL: defaultGeoNegativeTTL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindByCode looks up a geography by canonical code
func (c *RedisGeoCache) FindByCode(ctx context.Context, kind geo.GeoKind, code string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("code", kind, code), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByCode(ctx, kind, code)
	})
}

// FindByAbbreviation looks up a geography by postal abbreviation
func (c *RedisGeoCache) FindByAbbreviation(ctx context.Context, kind geo.GeoKind, abbreviation string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("abbr", kind, abbreviation), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByAbbreviation(ctx, kind, abbreviation)
	})
}

// FindByName looks up a geography by full name
func (c *RedisGeoCache) FindByName(ctx context.Context, kind geo.GeoKind, name string) (*geo.Geo, error) {
	return c.lookup(ctx, c.key("name", kind, name), func(ctx context.Context) (*geo.Geo, error) {
		return c.inner.FindByName(ctx, kind, name)
	})
}

// Close closes the underlying Redis connection
func (c *RedisGeoCache) Close() error {
	return c.client.Close()
}

func (c *RedisGeoCache) key(field string, kind geo.GeoKind, value string) string {
	return fmt.Sprintf("%s%s:%s:%s", c.keyPrefix, field, kind, geo.Normalize(value))
}

func (c *RedisGeoCache) lookup(ctx context.Context, key string, find func(context.Context) (*geo.Geo, error)) (*geo.Geo, error) {
	if entry, ok := c.get(ctx, key); ok {
		if entry.Missing {
			return nil, shared.ErrNotFound
		}
		return entry.Geo, nil
	}

	g, err := find(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) || errors.Is(err, geo.ErrGeoNotFound) {
			c.set(ctx, key, geoCacheEntry{Missing: true}, c.negativeTTL)
		}
		return nil, err
	}

	c.set(ctx, key, geoCacheEntry{Geo: g}, c.ttl)
	return g, nil
}

func (c *RedisGeoCache) get(ctx context.Context, key string) (geoCacheEntry, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Geo cache read failed", zap.String("key", key), zap.Error(err))
		}
		return geoCacheEntry{}, false
	}

	var entry geoCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("Geo cache entry corrupted", zap.String("key", key), zap.Error(err))
		return geoCacheEntry{}, false
	}
	return entry, true
}

func (c *RedisGeoCache) set(ctx context.Context, key string, entry geoCacheEntry, ttl time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Warn("Geo cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ensure RedisGeoCache implements geo.GeoRepository
var _ geo.GeoRepository = (*RedisGeoCache)(nil)
