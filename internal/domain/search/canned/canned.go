package canned

// QueryType selects one of the canned queries.
type QueryType int

// Canned query types.
const (
	HighScore QueryType = iota
	HighSentiment
	HighScoreLowSentiment
	LowScoreHighSentiment
	LowScoreLowSentiment
)

// NumQueries is the number of canned queries.
const NumQueries = 5

// Count is the result count of every canned query.
const Count = 10

// Template is a canned query with its category already interpolated.
type Template struct {
	Query string `json:"query"`
	Count int    `json:"count"`
	Sort  string `json:"sort"`
}

// Info describes a canned query for menus.
type Info struct {
	Type  QueryType `json:"type"`
	Label string    `json:"label"`
}

type template struct {
	label  string
	prefix string
	sort   string
}

var templates = [NumQueries]template{
	HighScore: {
		label:  "High Score",
		prefix: "Score>=4.0,",
		sort:   "-Score",
	},
	HighSentiment: {
		label:  "High Sentiment",
		prefix: "enriched_text.sentiment.document.score>=0.70,",
		sort:   "-enriched_text.sentiment.document.score",
	},
	HighScoreLowSentiment: {
		label:  "High Score, Low Sentiment",
		prefix: `Score>=4.0,enriched_text.sentiment.document.label::"negative",`,
		sort:   "enriched_text.sentiment.document.score",
	},
	LowScoreHighSentiment: {
		label:  "Low Score, High Sentiment",
		prefix: `Score<=3.0,enriched_text.sentiment.document.label::"positive",`,
		sort:   "-enriched_text.sentiment.document.score",
	},
	LowScoreLowSentiment: {
		label:  "Low Score, Low Sentiment",
		prefix: "enriched_text.sentiment.document.score>=-0.75,HelpfulnessNumerator>=4.0,",
		sort:   "enriched_text.sentiment.document.score",
	},
}

// IsValid checks if the type is in the catalog.
func (t QueryType) IsValid() bool { return t >= 0 && t < NumQueries }

// Label returns the menu label, or "" for unknown types.
func (t QueryType) Label() string {
	if !t.IsValid() {
		return ""
	}
	return templates[t].label
}

// Get returns the canned query of type t for a category. The category is
// concatenated verbatim into a category-label clause. Unknown types yield
// false.
func Get(t QueryType, category string) (Template, bool) {
	if !t.IsValid() {
		return Template{}, false
	}
	tpl := templates[t]
	return Template{
		Query: tpl.prefix + `enriched_text.categories.label:"` + category + `"`,
		Count: Count,
		Sort:  tpl.sort,
	}, true
}

// Types lists the catalog in order.
func Types() []Info {
	out := make([]Info, 0, NumQueries)
	for t := QueryType(0); t < NumQueries; t++ {
		out = append(out, Info{Type: t, Label: t.Label()})
	}
	return out
}
