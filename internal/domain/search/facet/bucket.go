package facet

import (
	"math"
	"sort"
	"strconv"
)

// TopRatedLimit caps the product rating list.
const TopRatedLimit = 10

// Bucket is one aggregation result: a term with its match count and
// optional sub-aggregations or metric value.
type Bucket struct {
	Key             string   `json:"key"`
	MatchingResults int      `json:"matching_results"`
	Value           *float64 `json:"value,omitempty"`
	Children        []Bucket `json:"children,omitempty"`
}

// Label renders the display form "key (count)".
func (b Bucket) Label() string {
	return b.Key + " (" + strconv.Itoa(b.MatchingResults) + ")"
}

// Count returns the match count of the child bucket keyed k, or 0.
func (b Bucket) Count(k string) int {
	for _, c := range b.Children {
		if c.Key == k {
			return c.MatchingResults
		}
	}
	return 0
}

// Rating is one entry of the top rated product list.
type Rating struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// TopRated takes the first TopRatedLimit product buckets, rounds each
// average score to two decimals and orders them best first.
func TopRated(buckets []Bucket) []Rating {
	n := min(len(buckets), TopRatedLimit)
	out := make([]Rating, 0, n)
	for _, b := range buckets[:n] {
		var score float64
		if b.Value != nil {
			score = math.Round(*b.Value*100) / 100
		}
		out = append(out, Rating{Label: b.Label(), Score: score})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
