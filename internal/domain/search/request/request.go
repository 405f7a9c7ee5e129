package request

import (
	"fmt"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/order"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query text length.
	MaxQueryLength = 4096
	// ViewCount is the result count used by the startup and vanity-path views.
	ViewCount = 1000
)

// Variant selects the aggregation set and passage handling.
type Variant string

// Request variants.
const (
	// Full is the main search: all aggregations, optional passages.
	Full Variant = "full"
	// Custom is the custom-query panel: facet aggregations only, no passages.
	Custom Variant = "custom"
)

// IsValid checks if the variant is known.
func (v Variant) IsValid() bool { return v == Full || v == Custom }

// Request is one search as issued by a caller. Zero count and empty sort
// mean "let the upstream decide".
type Request struct {
	query           string
	naturalLanguage bool
	filter          string
	count           int
	sortBy          string
	passages        bool
}

// New validates and creates a search request. Query text may be empty.
func New(query string, naturalLanguage bool, filter string, count int, sortBy string, passages bool) (Request, error) {
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if count < 0 {
		return Request{}, fmt.Errorf("count must not be negative")
	}
	return Request{
		query:           query,
		naturalLanguage: naturalLanguage,
		filter:          filter,
		count:           count,
		sortBy:          sortBy,
		passages:        passages,
	}, nil
}

// NewView creates the natural-language request behind the startup view and
// vanity-path search: large count, default sort, no passages.
func NewView(query string) (Request, error) {
	return New(query, true, "", ViewCount, order.Default(), false)
}

// Query returns the query text.
func (r *Request) Query() string { return r.query }

// NaturalLanguage reports whether the text goes under the natural-language key.
func (r *Request) NaturalLanguage() bool { return r.naturalLanguage }

// Filter returns the filter expression.
func (r *Request) Filter() string { return r.filter }

// Count returns the requested result count (0 = unset).
func (r *Request) Count() int { return r.count }

// SortBy returns the sort expression (empty = unset).
func (r *Request) SortBy() string { return r.sortBy }

// Passages reports whether passages were requested.
func (r *Request) Passages() bool { return r.passages }

// WithDefaultSort returns a copy sorted by order.Default when no sort is set.
func (r Request) WithDefaultSort() Request {
	if r.sortBy == "" {
		r.sortBy = order.Default()
	}
	return r
}
