package filter

import (
	"strings"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/facet"
)

// MentionPrefix is the clause prefix an entity mention must match in the
// active expression to be highlighted.
const MentionPrefix = "enriched_text.entities.text::"

// countSuffix opens the " (<count>)" tail that display values carry.
const countSuffix = " ("

// Build serializes a selection into the upstream filter grammar.
// Set-valued facets come first in facet.MultiValue order, each value quoted;
// singletons follow unquoted. Clauses are comma-joined.
func Build(sel *facet.Selection) string {
	if sel == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range facet.MultiValue {
		for _, v := range sel.Values(c) {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(c.Prefix())
			b.WriteByte('"')
			b.WriteString(StripCount(v))
			b.WriteByte('"')
		}
	}
	for _, c := range facet.Singletons {
		v := sel.Singleton(c)
		if !singletonActive(v) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.Prefix())
		b.WriteString(v)
	}
	return b.String()
}

// StripCount removes a trailing " (<count>)" display suffix, cutting at the
// last occurrence of " (".
func StripCount(v string) string {
	if i := strings.LastIndex(v, countSuffix); i >= 0 {
		return v[:i]
	}
	return v
}

// MentionClause renders the clause an entity mention text corresponds to.
func MentionClause(text string) string {
	return MentionPrefix + `"` + text + `"`
}

// Clauses counts the comma-joined clauses Build emits for sel. The product
// singleton expands to two clauses.
func Clauses(sel *facet.Selection) int {
	if sel == nil {
		return 0
	}
	n := 0
	for _, c := range facet.MultiValue {
		n += len(sel.Values(c))
	}
	for _, c := range facet.Singletons {
		if singletonActive(sel.Singleton(c)) {
			n++
			if c == facet.Product {
				n++
			}
		}
	}
	return n
}

func singletonActive(v string) bool {
	return len(v) > 1 && v != facet.All
}
