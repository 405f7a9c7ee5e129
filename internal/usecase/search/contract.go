package search

import (
	"context"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// Querier sends one query to the search service and returns its raw JSON.
type Querier interface {
	Query(ctx context.Context, p params.Params) ([]byte, error)
}
