package result

// Highlight fields.
const (
	FieldText  = "text"
	FieldTitle = "title"
)

// NoSentiment is the label of a review without sentiment enrichment.
const NoSentiment = "n/a"

// Span is a [Start, End) range into the body text, in UTF-16 code units.
type Span struct {
	Start int `json:"startIdx"`
	End   int `json:"endIdx"`
}

// Highlight lists the emphasized ranges of one field. Spans are sorted by
// start and never share a start offset.
type Highlight struct {
	Show  bool   `json:"showHighlight"`
	Field string `json:"field"`
	Spans []Span `json:"indexes"`
}

// Result is a review reduced to its displayed fields.
type Result struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Text           string    `json:"text"`
	Date           string    `json:"date"`
	Score          float64   `json:"score"`
	HelpRating     float64   `json:"helpRating"`
	SentimentScore float64   `json:"sentimentScore"`
	SentimentLabel string    `json:"sentimentLabel"`
	Highlight      Highlight `json:"highlight"`
}

// addSpan inserts s keeping spans ordered by start. A span whose start is
// already present is dropped.
func (h *Highlight) addSpan(s Span) {
	i := insertIndex(h.Spans, s.Start)
	if i < 0 {
		return
	}
	h.Spans = append(h.Spans, Span{})
	copy(h.Spans[i+1:], h.Spans[i:])
	h.Spans[i] = s
}

// insertIndex returns the first position whose start exceeds start, the
// length when none does, or -1 when start is already taken.
func insertIndex(spans []Span, start int) int {
	for i, s := range spans {
		if s.Start == start {
			return -1
		}
		if start < s.Start {
			return i
		}
	}
	return len(spans)
}
