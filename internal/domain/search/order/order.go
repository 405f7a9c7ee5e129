package order

import "strings"

// Key maps a displayed sort option to the upstream sort expression.
type Key struct {
	Type   string `json:"key"`
	SortBy string `json:"value"`
	Text   string `json:"text"`
}

var keys = []Key{
	{Type: "HIGHEST_SCORE", SortBy: "-Score", Text: "Highest Rated"},
	{Type: "LOWEST_SCORE", SortBy: "Score", Text: "Lowest Rated"},
	{Type: "NEWEST", SortBy: "-date", Text: "Newest First"},
	{Type: "OLDEST", SortBy: "date", Text: "Oldest First"},
	{Type: "HIGHEST_SENTIMENT", SortBy: "-sentimentScore", Text: "Highest Sentiment"},
	{Type: "LOWEST_SENTIMENT", SortBy: "sentimentScore", Text: "Lowest Sentiment"},
	{Type: "MOST_HELPFUL", SortBy: "-helpRating", Text: "Most Helpful"},
	{Type: "LEAST_HELPFUL", SortBy: "helpRating", Text: "Least Helpful"},
}

// Keys returns the sort options in menu order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// Default returns the sort expression used when none is given.
func Default() string { return keys[0].SortBy }

// Lookup finds a sort option by its upstream expression.
func Lookup(sortBy string) (Key, bool) {
	for _, k := range keys {
		if k.SortBy == sortBy {
			return k, true
		}
	}
	return Key{}, false
}

// Parse splits a sort expression into its field and direction. A leading
// "-" means descending; a leading "+" is accepted as ascending.
func Parse(expr string) (field string, desc bool) {
	switch {
	case strings.HasPrefix(expr, "-"):
		return expr[1:], true
	case strings.HasPrefix(expr, "+"):
		return expr[1:], false
	}
	return expr, false
}
