package usage

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// CountingQuerier records every query that reaches the upstream service.
// Place it below any dedupe so shared calls count once. Counter failures are
// logged and never fail the query.
type CountingQuerier struct {
	inner  Querier
	usage  *Service
	budget *Budget
	logger *zap.Logger
}

// NewCountingQuerier wraps a querier with usage counting.
func NewCountingQuerier(inner Querier, usage *Service, logger *zap.Logger) *CountingQuerier {
	return &CountingQuerier{inner: inner, usage: usage, logger: logger}
}

// WithBudget attaches a monthly budget checked before every query.
func (q *CountingQuerier) WithBudget(b *Budget) *CountingQuerier {
	q.budget = b
	return q
}

// Query reserves budget, records the call, then delegates.
func (q *CountingQuerier) Query(ctx context.Context, p params.Params) ([]byte, error) {
	if q.budget != nil {
		if err := q.budget.Reserve(ctx); err != nil {
			return nil, err
		}
	}
	if err := q.usage.Record(ctx); err != nil {
		q.logger.Warn("Usage counter update failed", zap.Error(err))
	}
	return q.inner.Query(ctx, p) //nolint:wrapcheck // transparent decorator
}
