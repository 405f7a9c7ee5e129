package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/db"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// querier is the decorated upstream client.
type querier interface {
	Query(ctx context.Context, p params.Params) ([]byte, error)
}

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Config holds cache key and expiry settings.
type Config struct {
	KeyPrefix string
	TTL       time.Duration
}

// CachedQuerier caches raw upstream responses in a key-value store.
type CachedQuerier struct {
	inner      querier
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner querier,
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedQuerier {
	return &CachedQuerier{
		inner:      inner,
		store:      s,
		prefix:     cfg.KeyPrefix + "resp:",
		ttl:        cfg.TTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Query returns a cached response or calls the inner querier. Only
// successful responses are cached; cache failures degrade to a miss.
func (c *CachedQuerier) Query(ctx context.Context, p params.Params) ([]byte, error) {
	key := c.cacheKey(p)

	if data, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return data, nil
	}

	c.incCache("miss")

	data, err := c.inner.Query(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("query upstream: %w", err)
	}

	c.putToCache(ctx, key, data)
	return data, nil
}

func (c *CachedQuerier) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedQuerier) cacheKey(p params.Params) string {
	h := sha256.Sum256([]byte(p.Key()))
	return c.prefix + hex.EncodeToString(h[:])
}

func (c *CachedQuerier) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (c *CachedQuerier) putToCache(ctx context.Context, key string, data []byte) {
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.String("key", key), zap.Error(err))
	}
}
