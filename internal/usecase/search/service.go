package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/canned"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/response"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/result"
	"github.com/kailas-cloud/reviewlens/internal/logger"
	"github.com/kailas-cloud/reviewlens/internal/metrics"
)

// View is a formatted search: one page of results plus everything the
// result panels need.
type View struct {
	Results         []result.Result       `json:"results"`
	Total           int                   `json:"total"`
	MatchingResults int                   `json:"matchingResults"`
	Page            int                   `json:"page"`
	Pages           int                   `json:"pages"`
	Totals          result.Totals         `json:"totals"`
	Aggregations    response.Aggregations `json:"aggregations"`
	TopRated        []facet.Rating        `json:"topRated"`
}

// Service runs searches against the configured target.
type Service struct {
	target  domain.Target
	querier Querier
	logger  *zap.Logger
}

// New creates a search service.
func New(target domain.Target, q Querier, logger *zap.Logger) *Service {
	return &Service{target: target, querier: q, logger: logger}
}

// Raw runs a search and returns the upstream JSON wrapped as {"result": ...}.
// A full search without a sort uses the default sort key.
func (s *Service) Raw(ctx context.Context, v request.Variant, req request.Request) ([]byte, error) {
	body, err := s.query(ctx, v, req)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(`{"result":}`))
	out = append(out, `{"result":`...)
	out = append(out, body...)
	return append(out, '}'), nil
}

// View runs a search and formats the requested 1-based page.
func (s *Service) View(ctx context.Context, v request.Variant, req request.Request, page int) (View, error) {
	body, err := s.query(ctx, v, req)
	if err != nil {
		return View{}, err
	}
	n, err := response.Normalize(body)
	if err != nil {
		return View{}, fmt.Errorf("normalize: %w", err)
	}
	return s.view(ctx, n, req, page), nil
}

// Common runs a canned query for a category. The "no category" sentinel
// yields an empty view without querying upstream.
func (s *Service) Common(ctx context.Context, t canned.QueryType, category string, page int) (View, error) {
	tpl, ok := canned.Get(t, category)
	if !ok {
		return View{}, fmt.Errorf("%w: %d", domain.ErrUnknownQueryType, t)
	}
	if facet.IsUnselected(category) {
		return emptyView(), nil
	}
	req, err := request.New(tpl.Query, false, "", tpl.Count, tpl.Sort, false)
	if err != nil {
		return View{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.View(ctx, request.Custom, req, page)
}

// Startup runs the initial natural-language query shown before any search.
func (s *Service) Startup(ctx context.Context, page int) (View, error) {
	return s.VanitySearch(ctx, "", page)
}

// VanitySearch runs a natural-language search from a URL path segment in
// which '+' separates words.
func (s *Service) VanitySearch(ctx context.Context, path string, page int) (View, error) {
	req, err := request.NewView(strings.ReplaceAll(path, "+", " "))
	if err != nil {
		return View{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return s.View(ctx, request.Full, req, page)
}

func (s *Service) query(ctx context.Context, v request.Variant, req request.Request) ([]byte, error) {
	if v == request.Full {
		req = req.WithDefaultSort()
	}
	body, err := s.querier.Query(ctx, params.Build(s.target, v, req))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", v, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedResponse)
	}
	return body, nil
}

func (s *Service) view(ctx context.Context, n response.Normalized, req request.Request, page int) View {
	results, errs := result.Format(n.Results, req.Filter())
	if len(errs) > 0 {
		metrics.FormatWarningsTotal.Add(float64(len(errs)))
		log := logger.FromContextOr(ctx, s.logger)
		for _, e := range errs {
			log.Warn("Highlight snippet skipped", zap.Error(e))
		}
	}
	result.Sort(results, req.SortBy())

	if page < 1 {
		page = 1
	}
	return View{
		Results:         result.Page(results, page),
		Total:           len(results),
		MatchingResults: n.MatchingResults,
		Page:            page,
		Pages:           result.PageCount(len(results)),
		Totals:          result.Summarize(results),
		Aggregations:    n.Aggregations,
		TopRated:        facet.TopRated(n.Aggregations.ProductRatings),
	}
}

func emptyView() View {
	return View{
		Results:  []result.Result{},
		Page:     1,
		TopRated: []facet.Rating{},
	}
}
