package response

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Sentiment is the enrichment sentiment block. Zero score and empty label
// mean "not present", matching how the upstream omits them.
type Sentiment struct {
	Score         float64
	Label         string
	DocumentScore float64
	DocumentLabel string
}

// Mention is one occurrence of an entity in the body text, as [Start, End)
// in UTF-16 code units.
type Mention struct {
	Text  string
	Start int
	End   int
}

// Entity is an enrichment entity with its mentions.
type Entity struct {
	Text     string
	Type     string
	Mentions []Mention
}

// Document is one matched review. Missing fields decode to zero values.
type Document struct {
	ID                     string
	Summary                string
	Text                   string
	Date                   string
	Score                  float64
	HelpfulnessNumerator   float64
	HelpfulnessDenominator float64
	ProductID              string
	UserID                 string
	Sentiment              *Sentiment
	Entities               []Entity
	Highlight              []string
	Raw                    json.RawMessage
}

func parseDocument(r gjson.Result) Document {
	d := Document{
		ID:                     r.Get("id").String(),
		Summary:                r.Get("Summary").String(),
		Text:                   r.Get("text").String(),
		Date:                   r.Get("date").String(),
		Score:                  r.Get("Score").Float(),
		HelpfulnessNumerator:   r.Get("HelpfulnessNumerator").Float(),
		HelpfulnessDenominator: r.Get("HelpfulnessDenominator").Float(),
		ProductID:              r.Get("ProductId").String(),
		UserID:                 r.Get("UserId").String(),
		Raw:                    json.RawMessage(r.Raw),
	}

	if s := r.Get("enriched_text.sentiment"); s.IsObject() {
		d.Sentiment = &Sentiment{
			Score:         s.Get("score").Float(),
			Label:         s.Get("label").String(),
			DocumentScore: s.Get("document.score").Float(),
			DocumentLabel: s.Get("document.label").String(),
		}
	}

	r.Get("enriched_text.entities").ForEach(func(_, e gjson.Result) bool {
		ent := Entity{Text: e.Get("text").String(), Type: e.Get("type").String()}
		e.Get("mentions").ForEach(func(_, m gjson.Result) bool {
			loc := m.Get("location").Array()
			if len(loc) < 2 {
				return true
			}
			ent.Mentions = append(ent.Mentions, Mention{
				Text:  m.Get("text").String(),
				Start: int(loc[0].Int()),
				End:   int(loc[1].Int()),
			})
			return true
		})
		d.Entities = append(d.Entities, ent)
		return true
	})

	// highlight.text is a list of snippets; some deployments send a single string.
	if h := r.Get("highlight.text"); h.IsArray() {
		for _, s := range h.Array() {
			d.Highlight = append(d.Highlight, s.String())
		}
	} else if h.Exists() && h.String() != "" {
		d.Highlight = []string{h.String()}
	}
	return d
}
