package health

import (
	"context"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// UpstreamChecker checks that the search service answers for a target.
type UpstreamChecker interface {
	HealthCheck(ctx context.Context, t domain.Target) error
}
