package params

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/reviewlens/internal/domain"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/request"
)

// Upstream parameter names.
const (
	KeyEnvironmentID        = "environment_id"
	KeyCollectionID         = "collection_id"
	KeyHighlight            = "highlight"
	KeyAggregation          = "aggregation"
	KeyNaturalLanguageQuery = "natural_language_query"
	KeyQuery                = "query"
	KeyFilter               = "filter"
	KeyCount                = "count"
	KeySort                 = "sort"
	KeyPassages             = "passages"
	KeyPassagesCount        = "passages_count"
)

// Params is the complete parameter set for one upstream query.
type Params struct {
	Target        domain.Target
	Variant       request.Variant
	Highlight     bool
	Aggregation   string
	NaturalQuery  bool
	Text          string
	Filter        string
	Count         int
	Sort          string
	Passages      bool
	PassagesCount int
}

// Build merges a request with the fixed highlight and aggregation settings.
// The target must be configured; this is checked once at startup.
func Build(t domain.Target, v request.Variant, r request.Request) Params {
	p := Params{
		Target:       t,
		Variant:      v,
		Highlight:    true,
		Aggregation:  AggregationFor(v == request.Full),
		NaturalQuery: r.NaturalLanguage(),
		Text:         r.Query(),
		Filter:       r.Filter(),
		Count:        r.Count(),
		Sort:         r.SortBy(),
	}
	if v == request.Full && r.Passages() {
		p.Passages = true
		p.PassagesCount = r.Count()
	}
	return p
}

// TextKey returns the parameter name the query text is sent under.
func (p Params) TextKey() string {
	if p.NaturalQuery {
		return KeyNaturalLanguageQuery
	}
	return KeyQuery
}

// Values encodes the parameters as a v1 query string. Identifiers travel in
// the URL path and are not included.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set(KeyHighlight, strconv.FormatBool(p.Highlight))
	v.Set(KeyAggregation, p.Aggregation)
	if p.Text != "" || p.NaturalQuery {
		v.Set(p.TextKey(), p.Text)
	}
	if p.Filter != "" {
		v.Set(KeyFilter, p.Filter)
	}
	if p.Count > 0 {
		v.Set(KeyCount, strconv.Itoa(p.Count))
	}
	if p.Sort != "" {
		v.Set(KeySort, p.Sort)
	}
	v.Set(KeyPassages, strconv.FormatBool(p.Passages))
	if p.PassagesCount > 0 {
		v.Set(KeyPassagesCount, strconv.Itoa(p.PassagesCount))
	}
	return v
}

type v2Passages struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count,omitempty"`
}

type v2Body struct {
	CollectionIDs        []string   `json:"collection_ids,omitempty"`
	NaturalLanguageQuery string     `json:"natural_language_query,omitempty"`
	Query                string     `json:"query,omitempty"`
	Filter               string     `json:"filter,omitempty"`
	Aggregation          string     `json:"aggregation"`
	Count                int        `json:"count,omitempty"`
	Sort                 string     `json:"sort,omitempty"`
	Highlight            bool       `json:"highlight"`
	Passages             v2Passages `json:"passages"`
}

// Body encodes the parameters as a v2 JSON request body.
func (p Params) Body() ([]byte, error) {
	b := v2Body{
		CollectionIDs: p.Target.CollectionIDs(),
		Filter:        p.Filter,
		Aggregation:   p.Aggregation,
		Count:         p.Count,
		Sort:          p.Sort,
		Highlight:     p.Highlight,
		Passages:      v2Passages{Enabled: p.Passages, Count: p.PassagesCount},
	}
	if p.NaturalQuery {
		b.NaturalLanguageQuery = p.Text
	} else {
		b.Query = p.Text
	}
	return json.Marshal(b)
}

// Key is a canonical string identifying the query, stable across calls
// with equal parameters.
func (p Params) Key() string {
	t := p.Target
	id := string(t.Version()) + "/" + t.EnvironmentID() + "/" + t.CollectionID() + "/" + t.ProjectID()
	return id + "?" + p.Values().Encode()
}

// Map returns the parameters in the flat shape of the original proxy,
// identifiers included.
func (p Params) Map() map[string]any {
	m := map[string]any{
		KeyHighlight:   p.Highlight,
		KeyAggregation: p.Aggregation,
	}
	switch p.Target.Version() {
	case domain.V2:
		m["project_id"] = p.Target.ProjectID()
	default:
		m[KeyEnvironmentID] = p.Target.EnvironmentID()
		m[KeyCollectionID] = p.Target.CollectionID()
	}
	if p.Text != "" || p.NaturalQuery {
		m[p.TextKey()] = p.Text
	}
	if p.Filter != "" {
		m[KeyFilter] = p.Filter
	}
	if p.Count > 0 {
		m[KeyCount] = p.Count
	}
	if p.Sort != "" {
		m[KeySort] = p.Sort
	}
	if p.Variant == request.Custom || p.Passages {
		m[KeyPassages] = p.Passages
	}
	if p.PassagesCount > 0 {
		m[KeyPassagesCount] = p.PassagesCount
	}
	return m
}
