package reviewlens

import (
	"github.com/kailas-cloud/reviewlens/internal/domain/search/canned"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/order"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/response"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/reviewlens/internal/usecase/search"
	usageuc "github.com/kailas-cloud/reviewlens/internal/usecase/usage"
)

// View is one page of formatted results with totals and facet buckets.
type View = searchuc.View

// Result is a formatted review.
type Result = result.Result

// Highlight marks the spans of a result's text to emphasize.
type Highlight = result.Highlight

// Span is a [Start, End) range of a result's text.
type Span = result.Span

// Totals counts results per sentiment label.
type Totals = result.Totals

// Aggregations holds the facet buckets of a search.
type Aggregations = response.Aggregations

// Bucket is one aggregation term with its match count.
type Bucket = facet.Bucket

// Rating is one entry of the top rated product list.
type Rating = facet.Rating

// FacetCode identifies a filterable dimension.
type FacetCode = facet.Code

// Facet codes.
const (
	Entity     = facet.Entity
	Category   = facet.Category
	Concept    = facet.Concept
	Keyword    = facet.Keyword
	EntityType = facet.EntityType
	Sentiment  = facet.Sentiment
	Product    = facet.Product
	Reviewer   = facet.Reviewer
)

// QueryType selects a canned query.
type QueryType = canned.QueryType

// Canned query types.
const (
	HighScore             = canned.HighScore
	HighSentiment         = canned.HighSentiment
	HighScoreLowSentiment = canned.HighScoreLowSentiment
	LowScoreHighSentiment = canned.LowScoreHighSentiment
	LowScoreLowSentiment  = canned.LowScoreLowSentiment
)

// SortKey is a sort option with its upstream expression.
type SortKey = order.Key

// UsageReport is the current month's upstream query count.
type UsageReport = usageuc.Report

// Tables lists the static option tables of a search UI.
type Tables struct {
	FilterTypes          []facet.Type
	SortTypes            []SortKey
	SentimentFilterTypes []Bucket
	CommonQueries        []canned.Info
}

// StaticTables returns the facet, sort and canned query tables.
func StaticTables() Tables {
	return Tables{
		FilterTypes:          facet.FilterTypes(),
		SortTypes:            order.Keys(),
		SentimentFilterTypes: facet.SentimentFilterTypes(),
		CommonQueries:        canned.Types(),
	}
}
