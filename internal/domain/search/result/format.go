package result

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/filter"
	"github.com/kailas-cloud/reviewlens/internal/domain/search/response"
)

// errEmptyEmphasis marks an <em> element without a leading text node.
var errEmptyEmphasis = errors.New("emphasis without text")

// SnippetError reports a highlight snippet that could not be used. The
// document is still formatted.
type SnippetError struct {
	ID  string
	Err error
}

func (e *SnippetError) Error() string {
	return fmt.Sprintf("highlight snippet for %q: %v", e.ID, e.Err)
}

func (e *SnippetError) Unwrap() error { return e.Err }

// Format maps documents to display records, preserving order. filterExpr is
// the active filter expression; entity mentions matching one of its clauses
// are highlighted. Snippet failures are returned alongside the results and
// never drop a document.
func Format(docs []response.Document, filterExpr string) ([]Result, []error) {
	out := make([]Result, 0, len(docs))
	var errs []error
	for i := range docs {
		r, err := formatOne(&docs[i], filterExpr)
		if err != nil {
			errs = append(errs, err)
		}
		out = append(out, r)
	}
	return out, errs
}

func formatOne(d *response.Document, filterExpr string) (Result, error) {
	score, label := resolveSentiment(d.Sentiment)
	r := Result{
		ID:             d.ID,
		Title:          d.Summary,
		Text:           d.Text,
		Date:           d.Date,
		Score:          d.Score,
		HelpRating:     HelpRating(d.HelpfulnessNumerator, d.HelpfulnessDenominator),
		SentimentScore: score,
		SentimentLabel: label,
		Highlight:      Highlight{Spans: []Span{}},
	}

	var snippetErr error
	if len(d.Highlight) > 0 {
		if err := highlightSnippets(&r.Highlight, d.Text, strings.Join(d.Highlight, ",")); err != nil {
			snippetErr = &SnippetError{ID: d.ID, Err: err}
		}
	}
	if len(filterExpr) > 1 {
		highlightMentions(&r.Highlight, d, filterExpr)
	}
	return r, snippetErr
}

// HelpRating is the share of helpful votes on a 0-100 scale. The ratio is
// rounded to two decimals before scaling, so 2/3 yields 67.
func HelpRating(numerator, denominator float64) float64 {
	if numerator == 0 || denominator == 0 {
		return 0
	}
	pct := numerator / denominator
	return math.Round(pct*100) / 100 * 100
}

// resolveSentiment prefers the document-level values over the top-level ones.
func resolveSentiment(s *response.Sentiment) (float64, string) {
	score, label := 0.0, NoSentiment
	if s == nil {
		return score, label
	}
	if s.Score != 0 {
		score = s.Score
	}
	if s.Label != "" {
		label = s.Label
	}
	if s.DocumentScore != 0 {
		score = s.DocumentScore
	}
	if s.DocumentLabel != "" {
		label = s.DocumentLabel
	}
	return score, label
}

// highlightSnippets locates each top-level <em> of the snippet markup in
// text. The search only moves forward: a hit resumes after its end, a miss
// advances one character and records nothing. Repeated words therefore map
// to successive occurrences. Spans are emitted in code units.
func highlightSnippets(h *Highlight, text, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	cursor, cursorUnits := 0, 0
	for _, n := range nodes {
		if n.Type != html.ElementNode || n.DataAtom != atom.Em {
			continue
		}
		c := n.FirstChild
		if c == nil || c.Type != html.TextNode {
			return errEmptyEmphasis
		}
		start := indexFrom(text, c.Data, cursor)
		if start < 0 {
			if cursor < len(text) {
				cursorUnits += unitsIn(text[cursor:nextRune(text, cursor)])
			}
			cursor = nextRune(text, cursor)
			continue
		}
		startUnits := cursorUnits + unitsIn(text[cursor:start])
		endUnits := startUnits + unitsIn(c.Data)
		h.Show = true
		h.Field = FieldText
		h.Spans = append(h.Spans, Span{Start: startUnits, End: endUnits})
		cursor, cursorUnits = start+len(c.Data), endUnits
	}
	return nil
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], sub)
	if i < 0 {
		return -1
	}
	return from + i
}

// highlightMentions adds the span of every entity mention whose body text,
// rendered as an entity filter clause, occurs in filterExpr. Mention
// locations are code unit offsets.
func highlightMentions(h *Highlight, d *response.Document, filterExpr string) {
	idx := newTextIndex(d.Text)
	for _, e := range d.Entities {
		for _, m := range e.Mentions {
			if m.End < m.Start || m.End > idx.units() {
				continue
			}
			start, okStart := idx.byteOffset(m.Start)
			end, okEnd := idx.byteOffset(m.End)
			if !okStart || !okEnd {
				continue
			}
			if !strings.Contains(filterExpr, filter.MentionClause(d.Text[start:end])) {
				continue
			}
			h.Show = true
			h.Field = FieldText
			h.addSpan(Span{Start: m.Start, End: m.End})
		}
	}
}
