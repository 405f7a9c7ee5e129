package result

import (
	"errors"
	"math"
	"testing"

	"github.com/kailas-cloud/reviewlens/internal/domain/search/response"
)

const body = "Great taste and great price"

func mention(text string, start, end int) response.Entity {
	return response.Entity{Text: text, Mentions: []response.Mention{{Text: text, Start: start, End: end}}}
}

func TestHelpRating(t *testing.T) {
	tests := []struct {
		num, den float64
		want     float64
	}{
		{2, 3, 67},
		{1, 1, 100},
		{1, 2, 50},
		{0, 5, 0},
		{3, 0, 0},
		{1, 8, 13},
	}
	for _, tt := range tests {
		got := HelpRating(tt.num, tt.den)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HelpRating(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestFormat_PlainDocument(t *testing.T) {
	docs := []response.Document{{ID: "1", Summary: "Title", Text: "body", Date: "2012-01-01", Score: 4}}
	got, errs := Format(docs, "")
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	r := got[0]
	if r.ID != "1" || r.Title != "Title" || r.Text != "body" || r.Date != "2012-01-01" || r.Score != 4 {
		t.Errorf("result = %+v", r)
	}
	if r.SentimentScore != 0 || r.SentimentLabel != "n/a" {
		t.Errorf("sentiment = %v/%q", r.SentimentScore, r.SentimentLabel)
	}
	if r.Highlight.Show || r.Highlight.Field != "" || len(r.Highlight.Spans) != 0 {
		t.Errorf("highlight = %+v", r.Highlight)
	}
	if r.Highlight.Spans == nil {
		t.Error("Spans should be an empty list, not nil")
	}
}

func TestFormat_SentimentPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		sentiment *response.Sentiment
		score     float64
		label     string
	}{
		{"none", nil, 0, "n/a"},
		{"top level only", &response.Sentiment{Score: 0.4, Label: "positive"}, 0.4, "positive"},
		{"document wins", &response.Sentiment{Score: 0.4, Label: "positive", DocumentScore: -0.6, DocumentLabel: "negative"}, -0.6, "negative"},
		{"document label only", &response.Sentiment{Score: 0.4, Label: "positive", DocumentLabel: "neutral"}, 0.4, "neutral"},
		{"empty block", &response.Sentiment{}, 0, "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Format([]response.Document{{Sentiment: tt.sentiment}}, "")
			if got[0].SentimentScore != tt.score || got[0].SentimentLabel != tt.label {
				t.Errorf("sentiment = %v/%q, want %v/%q", got[0].SentimentScore, got[0].SentimentLabel, tt.score, tt.label)
			}
		})
	}
}

func TestFormat_MentionHighlight(t *testing.T) {
	doc := response.Document{ID: "1", Text: body, Entities: []response.Entity{mention("taste", 6, 11)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"taste"`)
	h := got[0].Highlight
	if !h.Show || h.Field != "text" {
		t.Fatalf("highlight = %+v", h)
	}
	if len(h.Spans) != 1 || h.Spans[0] != (Span{Start: 6, End: 11}) {
		t.Errorf("Spans = %+v", h.Spans)
	}
	if body[h.Spans[0].Start:h.Spans[0].End] != "taste" {
		t.Errorf("span covers %q", body[h.Spans[0].Start:h.Spans[0].End])
	}
}

func TestFormat_MentionNotInFilter(t *testing.T) {
	doc := response.Document{Text: body, Entities: []response.Entity{mention("price", 22, 27)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"taste"`)
	if got[0].Highlight.Show {
		t.Errorf("highlight = %+v", got[0].Highlight)
	}
}

func TestFormat_ShortFilterSkipsMentions(t *testing.T) {
	doc := response.Document{Text: "a", Entities: []response.Entity{mention("a", 0, 1)}}
	got, _ := Format([]response.Document{doc}, "a")
	if got[0].Highlight.Show {
		t.Error("filter of length 1 must not trigger mention highlighting")
	}
}

func TestFormat_MentionOutOfRangeIgnored(t *testing.T) {
	doc := response.Document{Text: "short", Entities: []response.Entity{mention("x", 3, 40), mention("y", 4, 2)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"rt"`)
	if got[0].Highlight.Show {
		t.Errorf("highlight = %+v", got[0].Highlight)
	}
}

func TestFormat_DuplicateStartDropped(t *testing.T) {
	doc := response.Document{
		Text: body,
		Entities: []response.Entity{
			mention("great", 16, 21),
			mention("Great", 0, 5),
			{Text: "great price", Mentions: []response.Mention{{Start: 16, End: 27}}},
		},
	}
	expr := `enriched_text.entities.text::"great",enriched_text.entities.text::"Great",` +
		`enriched_text.entities.text::"great price"`
	got, _ := Format([]response.Document{doc}, expr)
	want := []Span{{0, 5}, {16, 21}}
	spans := got[0].Highlight.Spans
	if len(spans) != len(want) {
		t.Fatalf("Spans = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("Spans[%d] = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestFormat_SnippetHighlight(t *testing.T) {
	doc := response.Document{Text: body, Highlight: []string{"<em>Great</em> taste and <em>great</em> price"}}
	got, errs := Format([]response.Document{doc}, "")
	if len(errs) != 0 {
		t.Fatalf("errs = %v", errs)
	}
	h := got[0].Highlight
	if !h.Show || h.Field != "text" {
		t.Fatalf("highlight = %+v", h)
	}
	want := []Span{{0, 5}, {16, 21}}
	if len(h.Spans) != 2 || h.Spans[0] != want[0] || h.Spans[1] != want[1] {
		t.Errorf("Spans = %+v, want %+v", h.Spans, want)
	}
}

func TestFormat_SnippetForwardScan(t *testing.T) {
	text := "tea tea tea"
	doc := response.Document{Text: text, Highlight: []string{"<em>tea</em> <em>tea</em>"}}
	got, _ := Format([]response.Document{doc}, "")
	want := []Span{{0, 3}, {4, 7}}
	spans := got[0].Highlight.Spans
	if len(spans) != 2 || spans[0] != want[0] || spans[1] != want[1] {
		t.Errorf("Spans = %+v, want %+v", spans, want)
	}
}

func TestFormat_SnippetMissAdvancesCursor(t *testing.T) {
	text := "ab cd"
	doc := response.Document{Text: text, Highlight: []string{"<em>zz</em><em>ab</em><em>ab</em>"}}
	got, _ := Format([]response.Document{doc}, "")
	spans := got[0].Highlight.Spans
	// The miss moves the cursor past offset 0, so neither "ab" is found.
	if len(spans) != 0 {
		t.Errorf("Spans = %+v, want none", spans)
	}
}

func TestFormat_SnippetNestedEmphasisIgnored(t *testing.T) {
	doc := response.Document{Text: body, Highlight: []string{"<p><em>taste</em></p>"}}
	got, _ := Format([]response.Document{doc}, "")
	if got[0].Highlight.Show {
		t.Errorf("nested emphasis should be ignored: %+v", got[0].Highlight)
	}
}

func TestFormat_SnippetEntities(t *testing.T) {
	doc := response.Document{Text: "salt & pepper", Highlight: []string{"salt <em>&amp; pepper</em>"}}
	got, _ := Format([]response.Document{doc}, "")
	if spans := got[0].Highlight.Spans; len(spans) != 1 || spans[0] != (Span{5, 13}) {
		t.Errorf("Spans = %+v", spans)
	}
}

func TestFormat_MalformedSnippetKeepsDocument(t *testing.T) {
	docs := []response.Document{
		{ID: "bad", Text: body, Highlight: []string{"<em></em>"}, Entities: []response.Entity{mention("taste", 6, 11)}},
		{ID: "good", Text: body},
	}
	got, errs := Format(docs, `enriched_text.entities.text::"taste"`)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if len(errs) != 1 {
		t.Fatalf("errs = %v", errs)
	}
	var se *SnippetError
	if !errors.As(errs[0], &se) || se.ID != "bad" {
		t.Errorf("error = %v", errs[0])
	}
	if !got[0].Highlight.Show || len(got[0].Highlight.Spans) != 1 {
		t.Errorf("mention pass should still run: %+v", got[0].Highlight)
	}
}

func TestFormat_BothSources(t *testing.T) {
	doc := response.Document{
		Text:      body,
		Highlight: []string{"Great taste and great <em>price</em>"},
		Entities:  []response.Entity{mention("taste", 6, 11), mention("price", 22, 27)},
	}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"taste"`)
	want := []Span{{6, 11}, {22, 27}}
	spans := got[0].Highlight.Spans
	if len(spans) != 2 || spans[0] != want[0] || spans[1] != want[1] {
		t.Errorf("Spans = %+v, want %+v", spans, want)
	}
}

func TestFormat_PreservesOrder(t *testing.T) {
	docs := []response.Document{{ID: "c"}, {ID: "a"}, {ID: "b"}}
	got, _ := Format(docs, "")
	for i, id := range []string{"c", "a", "b"} {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestInsertIndex(t *testing.T) {
	spans := []Span{{2, 4}, {10, 12}}
	tests := []struct {
		start, want int
	}{
		{0, 0},
		{2, -1},
		{5, 1},
		{10, -1},
		{20, 2},
	}
	for _, tt := range tests {
		if got := insertIndex(spans, tt.start); got != tt.want {
			t.Errorf("insertIndex(%d) = %d, want %d", tt.start, got, tt.want)
		}
	}
}

func TestFormat_MentionAfterMultiByteText(t *testing.T) {
	doc := response.Document{Text: "Café taste", Entities: []response.Entity{mention("taste", 5, 10)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"taste"`)
	h := got[0].Highlight
	if !h.Show {
		t.Fatalf("highlight = %+v", h)
	}
	if len(h.Spans) != 1 || h.Spans[0] != (Span{Start: 5, End: 10}) {
		t.Errorf("Spans = %+v, want [{5 10}]", h.Spans)
	}
}

func TestFormat_MentionAfterSurrogatePair(t *testing.T) {
	// The emoji is two UTF-16 code units and four bytes.
	doc := response.Document{Text: "😀 great tea", Entities: []response.Entity{mention("great", 3, 8)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"great"`)
	if spans := got[0].Highlight.Spans; len(spans) != 1 || spans[0] != (Span{3, 8}) {
		t.Errorf("Spans = %+v, want [{3 8}]", spans)
	}
}

func TestFormat_MentionSplittingSurrogatePairIgnored(t *testing.T) {
	doc := response.Document{Text: "😀 great", Entities: []response.Entity{mention("x", 1, 3)}}
	got, _ := Format([]response.Document{doc}, `enriched_text.entities.text::"x"`)
	if got[0].Highlight.Show {
		t.Errorf("highlight = %+v", got[0].Highlight)
	}
}

func TestFormat_SnippetSpansInCharacters(t *testing.T) {
	doc := response.Document{
		Text:      "Crème brûlée is great",
		Highlight: []string{"Crème brûlée is <em>great</em>"},
	}
	got, _ := Format([]response.Document{doc}, "")
	if spans := got[0].Highlight.Spans; len(spans) != 1 || spans[0] != (Span{16, 21}) {
		t.Errorf("Spans = %+v, want [{16 21}]", spans)
	}
}

func TestFormat_SnippetMissAdvancesOneCharacter(t *testing.T) {
	doc := response.Document{Text: "é ab", Highlight: []string{"<em>zz</em><em>ab</em>"}}
	got, _ := Format([]response.Document{doc}, "")
	if spans := got[0].Highlight.Spans; len(spans) != 1 || spans[0] != (Span{2, 4}) {
		t.Errorf("Spans = %+v, want [{2 4}]", spans)
	}
}

func TestFormat_SnippetsJoinedWithComma(t *testing.T) {
	doc := response.Document{
		Text:      "sweet, salty",
		Highlight: []string{"<em>sweet</em>", "<em>salty</em>"},
	}
	got, _ := Format([]response.Document{doc}, "")
	want := []Span{{0, 5}, {7, 12}}
	spans := got[0].Highlight.Spans
	if len(spans) != 2 || spans[0] != want[0] || spans[1] != want[1] {
		t.Errorf("Spans = %+v, want %+v", spans, want)
	}
}

func TestTextIndex(t *testing.T) {
	idx := newTextIndex("a😀é")
	if idx.units() != 4 {
		t.Fatalf("units = %d, want 4", idx.units())
	}
	tests := []struct {
		unit int
		want int
		ok   bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 0, false},
		{3, 5, true},
		{4, 7, true},
		{5, 0, false},
		{-1, 0, false},
	}
	for _, tt := range tests {
		got, ok := idx.byteOffset(tt.unit)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("byteOffset(%d) = %d, %v; want %d, %v", tt.unit, got, ok, tt.want, tt.ok)
		}
	}
}
