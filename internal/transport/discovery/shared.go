package discovery

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
	"github.com/kailas-cloud/reviewlens/internal/metrics"
)

// Querier sends one query upstream.
type Querier interface {
	Query(ctx context.Context, p params.Params) ([]byte, error)
}

// SharedQuerier lets identical concurrent queries share one call to inner.
// The shared call runs detached from any single caller's cancellation and is
// bounded by timeout instead; each caller stops waiting when its own context
// ends.
type SharedQuerier struct {
	inner   Querier
	timeout time.Duration
	group   singleflight.Group
}

// NewSharedQuerier wraps inner. A zero timeout leaves the shared call
// unbounded.
func NewSharedQuerier(inner Querier, timeout time.Duration) *SharedQuerier {
	return &SharedQuerier{inner: inner, timeout: timeout}
}

// Query joins an in-flight call with the same params or starts one.
func (q *SharedQuerier) Query(ctx context.Context, p params.Params) ([]byte, error) {
	ch := q.group.DoChan(p.Key(), func() (any, error) {
		callCtx, cancel := q.detach(ctx)
		defer cancel()
		return q.inner.Query(callCtx, p)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for query: %w", ctx.Err())
	case res := <-ch:
		if res.Shared {
			metrics.UpstreamSharedTotal.Inc()
		}
		if res.Err != nil {
			return nil, res.Err //nolint:wrapcheck // transparent decorator
		}
		return res.Val.([]byte), nil
	}
}

func (q *SharedQuerier) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if q.timeout > 0 {
		return context.WithTimeout(base, q.timeout)
	}
	return context.WithCancel(base)
}
