package usage

import (
	"context"
	"time"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// Store holds the per-month counters.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Querier sends one query upstream.
type Querier interface {
	Query(ctx context.Context, p params.Params) ([]byte, error)
}
