package params

import "strings"

// Aggregation names one positional aggregation of the upstream response.
type Aggregation int

// Aggregations in emission order. The upstream answers positionally, so
// this order is shared by the query builder and the response decoder.
const (
	Entities Aggregation = iota
	Categories
	Concepts
	Keywords
	EntityTypes
	ProductRatings
	Reviewers
	ProductNames
)

const sentimentTerm = ".term(enriched_text.sentiment.document.label)"

// Clauses holds the aggregation clause for each position.
var Clauses = []string{
	Entities:       "term(enriched_text.entities.text)" + sentimentTerm,
	Categories:     "term(enriched_text.categories.label)" + sentimentTerm,
	Concepts:       "term(enriched_text.concepts.text)" + sentimentTerm,
	Keywords:       "term(enriched_text.keywords.text)" + sentimentTerm,
	EntityTypes:    "term(enriched_text.entities.type)" + sentimentTerm,
	ProductRatings: "term(ProductId,count:100).average(Score)",
	Reviewers:      "term(UserId,count:100)",
	ProductNames: "nested(enriched_text.entities)" +
		".filter(enriched_text.entities.type:Product)" +
		".term(enriched_text.entities.text,count:100)",
}

// fullAggregation and customAggregation are rendered once; both are constant.
var (
	fullAggregation   = render(len(Clauses))
	customAggregation = render(int(EntityTypes) + 1)
)

// AggregationFor returns the bracketed clause list sent for a variant.
func AggregationFor(full bool) string {
	if full {
		return fullAggregation
	}
	return customAggregation
}

// Count returns how many positional aggregations a variant requests.
func Count(full bool) int {
	if full {
		return len(Clauses)
	}
	return int(EntityTypes) + 1
}

func render(n int) string {
	return "[" + strings.Join(Clauses[:n], ",") + "]"
}
