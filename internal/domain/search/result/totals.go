package result

// Sentiment labels counted by Summarize.
const (
	Positive = "positive"
	Negative = "negative"
	Neutral  = "neutral"
)

// Totals counts results per sentiment label.
type Totals struct {
	Positive int `json:"numPositive"`
	Negative int `json:"numNegative"`
	Neutral  int `json:"numNeutral"`
}

// Summarize tallies exact, case-sensitive sentiment labels. Other labels,
// "n/a" included, are not counted.
func Summarize(results []Result) Totals {
	var t Totals
	for i := range results {
		switch results[i].SentimentLabel {
		case Positive:
			t.Positive++
		case Negative:
			t.Negative++
		case Neutral:
			t.Neutral++
		}
	}
	return t
}
