package facet

// Code identifies a filterable dimension of the review corpus.
type Code string

// Facet codes.
const (
	Entity     Code = "EN"
	Category   Code = "CA"
	Concept    Code = "CO"
	Keyword    Code = "KW"
	EntityType Code = "ET"
	Sentiment  Code = "SE"
	Product    Code = "PR"
	Reviewer   Code = "RV"
)

// Sentinel values meaning "no specific selection".
const (
	All         = "ALL"
	AllTerms    = "All Terms"
	NoTerm      = "Select Term"
	NoProduct   = "Select Product"
	NoCategory  = "Select Category"
	productType = "Product"
)

// Type is a facet code paired with its display label.
type Type struct {
	Code  Code   `json:"key"`
	Label string `json:"text"`
}

var labels = map[Code]string{
	Entity:     "Entities",
	Category:   "Categories",
	Concept:    "Concepts",
	Keyword:    "Keywords",
	EntityType: "Entity Types",
	Sentiment:  "Sentiment",
	Product:    "Product",
	Reviewer:   "Reviewer",
}

var prefixes = map[Code]string{
	Entity:     "enriched_text.entities.text::",
	Category:   "enriched_text.categories.label::",
	Concept:    "enriched_text.concepts.text::",
	Keyword:    "enriched_text.keywords.text::",
	EntityType: "enriched_text.entities.type::",
	Sentiment:  "enriched_text.sentiment.document.label::",
	Product:    "enriched_text.entities.type::" + productType + ",enriched_text.entities.text::",
	Reviewer:   "UserId::",
}

// MultiValue lists the set-valued facets in filter emission order.
var MultiValue = []Code{Entity, Category, Concept, Keyword, EntityType}

// Singletons lists the single-valued facets in filter emission order.
var Singletons = []Code{Sentiment, Product, Reviewer}

// Label returns the display label, or the raw code for unknown codes.
func (c Code) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Prefix returns the filter-expression key prefix for the facet.
func (c Code) Prefix() string { return prefixes[c] }

// IsValid checks if the code is one of the known facets.
func (c Code) IsValid() bool {
	_, ok := prefixes[c]
	return ok
}

// IsMultiValue reports whether the facet holds a set of values.
func (c Code) IsMultiValue() bool {
	for _, m := range MultiValue {
		if m == c {
			return true
		}
	}
	return false
}

// FilterTypes returns the facets offered in the term filter menu.
func FilterTypes() []Type {
	out := make([]Type, 0, len(MultiValue))
	for _, c := range MultiValue {
		out = append(out, Type{Code: c, Label: c.Label()})
	}
	return out
}

// SentimentFilterTypes returns the sentiment menu entries.
func SentimentFilterTypes() []Bucket {
	return []Bucket{{Key: "Positive"}, {Key: "Negative"}}
}

// IsUnselected reports whether v is empty or one of the sentinel values.
func IsUnselected(v string) bool {
	switch v {
	case "", All, AllTerms, NoTerm, NoProduct, NoCategory:
		return true
	}
	return false
}
