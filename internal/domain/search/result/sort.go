package result

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/order"
)

var sortFields = map[string]func(a, b *Result) int{
	"Score":          func(a, b *Result) int { return cmp.Compare(a.Score, b.Score) },
	"date":           func(a, b *Result) int { return cmp.Compare(a.Date, b.Date) },
	"sentimentScore": func(a, b *Result) int { return cmp.Compare(a.SentimentScore, b.SentimentScore) },
	"helpRating":     func(a, b *Result) int { return cmp.Compare(a.HelpRating, b.HelpRating) },
}

// Sort orders results in place by a sort expression such as "-Score" or
// "date". It reports false, leaving the order untouched, for unknown fields.
func Sort(results []Result, expr string) bool {
	field, desc := order.Parse(expr)
	compare, ok := sortFields[field]
	if !ok {
		return false
	}
	slices.SortStableFunc(results, func(a, b Result) int {
		if desc {
			return compare(&b, &a)
		}
		return compare(&a, &b)
	})
	return true
}
