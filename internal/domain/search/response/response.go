package response

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/params"
)

// Aggregations holds the aggregation buckets by name.
type Aggregations struct {
	Entities       []facet.Bucket `json:"entities"`
	Categories     []facet.Bucket `json:"categories"`
	Concepts       []facet.Bucket `json:"concepts"`
	Keywords       []facet.Bucket `json:"keywords"`
	EntityTypes    []facet.Bucket `json:"entity_types"`
	ProductRatings []facet.Bucket `json:"product_ratings"`
	Reviewers      []facet.Bucket `json:"reviewers"`
	ProductNames   []facet.Bucket `json:"product_names"`
}

// ByFacet returns the buckets backing a facet menu.
func (a Aggregations) ByFacet(c facet.Code) []facet.Bucket {
	switch c {
	case facet.Entity:
		return a.Entities
	case facet.Category:
		return a.Categories
	case facet.Concept:
		return a.Concepts
	case facet.Keyword:
		return a.Keywords
	case facet.EntityType:
		return a.EntityTypes
	case facet.Product:
		return a.ProductNames
	case facet.Reviewer:
		return a.Reviewers
	}
	return nil
}

// Normalized is a decoded upstream response.
type Normalized struct {
	Raw             json.RawMessage
	MatchingResults int
	Results         []Document
	Aggregations    Aggregations
}

// Normalize decodes an upstream response. The envelope may be wrapped in a
// "result" object. A payload without a result list fails with
// domain.ErrMalformedResponse.
func Normalize(raw []byte) (Normalized, error) {
	if !gjson.ValidBytes(raw) {
		return Normalized{}, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedResponse)
	}
	root := gjson.ParseBytes(raw)
	env, path := root, "results"
	if w := root.Get("result"); w.IsObject() {
		env, path = w, "result.results"
	}

	results := env.Get("results")
	if !results.IsArray() {
		return Normalized{}, &domain.MalformedResponseError{Path: path}
	}

	n := Normalized{
		Raw:             append(json.RawMessage(nil), raw...),
		MatchingResults: int(env.Get("matching_results").Int()),
	}
	for _, r := range results.Array() {
		n.Results = append(n.Results, parseDocument(r))
	}
	n.Aggregations = parseAggregations(env.Get("aggregations"))
	return n, nil
}

func parseAggregations(aggs gjson.Result) Aggregations {
	at := func(a params.Aggregation, suffix string) gjson.Result {
		return aggs.Get(strconv.Itoa(int(a)) + suffix)
	}
	return Aggregations{
		Entities:       parseBuckets(at(params.Entities, ".results")),
		Categories:     parseBuckets(at(params.Categories, ".results")),
		Concepts:       parseBuckets(at(params.Concepts, ".results")),
		Keywords:       parseBuckets(at(params.Keywords, ".results")),
		EntityTypes:    parseBuckets(at(params.EntityTypes, ".results")),
		ProductRatings: parseBuckets(at(params.ProductRatings, ".results")),
		Reviewers:      parseBuckets(at(params.Reviewers, ".results")),
		ProductNames:   parseBuckets(at(params.ProductNames, ".aggregations.0.aggregations.0.results")),
	}
}

func parseBuckets(r gjson.Result) []facet.Bucket {
	if !r.IsArray() {
		return nil
	}
	var out []facet.Bucket
	r.ForEach(func(_, item gjson.Result) bool {
		b := facet.Bucket{
			Key:             item.Get("key").String(),
			MatchingResults: int(item.Get("matching_results").Int()),
		}
		sub := item.Get("aggregations.0")
		if v := sub.Get("value"); v.Exists() {
			f := v.Float()
			b.Value = &f
		}
		b.Children = parseBuckets(sub.Get("results"))
		out = append(out, b)
		return true
	})
	return out
}
