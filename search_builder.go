package reviewlens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/filter"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
)

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder struct {
	client  *Client
	variant request.Variant

	query           string
	naturalLanguage bool
	selection       *facet.Selection
	expression      string
	count           int
	sortBy          string
	passages        bool
	page            int

	errs []error
}

func newSearchBuilder(c *Client, v request.Variant) *SearchBuilder {
	return &SearchBuilder{client: c, variant: v, selection: facet.NewSelection(), page: 1}
}

// Query sets the query text.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// NaturalLanguage sends the text as a natural-language query instead of
// a query-language expression.
func (b *SearchBuilder) NaturalLanguage() *SearchBuilder {
	b.naturalLanguage = true
	return b
}

// Where selects a value of a set-valued facet (entity, category, concept,
// keyword, entity type). Display suffixes such as " (12)" are stripped.
func (b *SearchBuilder) Where(code FacetCode, value string) *SearchBuilder {
	if err := b.selection.Add(code, value); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Sentiment restricts results to one document sentiment label.
func (b *SearchBuilder) Sentiment(label string) *SearchBuilder {
	return b.set(facet.Sentiment, label)
}

// Product restricts results to reviews of one product.
func (b *SearchBuilder) Product(name string) *SearchBuilder {
	return b.set(facet.Product, name)
}

// Reviewer restricts results to reviews by one user.
func (b *SearchBuilder) Reviewer(userID string) *SearchBuilder {
	return b.set(facet.Reviewer, userID)
}

func (b *SearchBuilder) set(c facet.Code, v string) *SearchBuilder {
	if err := b.selection.Set(c, v); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// Filter sets a raw filter expression, overriding any facet selection.
func (b *SearchBuilder) Filter(expr string) *SearchBuilder {
	b.expression = expr
	return b
}

// Count sets the number of results requested upstream.
func (b *SearchBuilder) Count(n int) *SearchBuilder {
	b.count = n
	return b
}

// Sort sets the sort expression, e.g. "-Score" or "date".
func (b *SearchBuilder) Sort(expr string) *SearchBuilder {
	b.sortBy = expr
	return b
}

// Passages asks for passages. Ignored by custom searches.
func (b *SearchBuilder) Passages() *SearchBuilder {
	b.passages = true
	return b
}

// Page selects the 1-based result page returned by Do.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	b.page = n
	return b
}

// FilterExpression returns the filter expression the search will send.
func (b *SearchBuilder) FilterExpression() string {
	if b.expression != "" {
		return b.expression
	}
	return filter.Build(b.selection)
}

func (b *SearchBuilder) request() (request.Request, error) {
	if len(b.errs) > 0 {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, errors.Join(b.errs...))
	}
	req, err := request.New(b.query, b.naturalLanguage, b.FilterExpression(), b.count, b.sortBy, b.passages)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return req, nil
}

// Do executes the search and returns the formatted page.
func (b *SearchBuilder) Do(ctx context.Context) (v View, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe("search", start, err) }()

	req, err := b.request()
	if err != nil {
		return View{}, err
	}
	v, err = b.client.searchSvc.View(ctx, b.variant, req, b.page)
	if err != nil {
		return View{}, fmt.Errorf("search: %w", err)
	}
	return v, nil
}

// Raw executes the search and returns the upstream JSON wrapped as
// {"result": ...}.
func (b *SearchBuilder) Raw(ctx context.Context) (body []byte, err error) {
	start := time.Now()
	defer func() { b.client.obs.observe("search_raw", start, err) }()

	req, err := b.request()
	if err != nil {
		return nil, err
	}
	body, err = b.client.searchSvc.Raw(ctx, b.variant, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return body, nil
}
