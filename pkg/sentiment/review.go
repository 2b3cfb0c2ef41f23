package sentiment

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Review is a single app-store review of a bank's app.
type Review struct {
	ID        string     `json:"id,omitempty" yaml:"id,omitempty"`
	Bank      string     `json:"bank" yaml:"bank"`
	Rating    int        `json:"rating" yaml:"rating"`
	Text      string     `json:"review" yaml:"review"`
	Date      string     `json:"date,omitempty" yaml:"date,omitempty"`
	Sentiment *Sentiment `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
}

// Sentiment is the scored polarity of a review.
type Sentiment struct {
	CompoundScore float64 `json:"compound_score" yaml:"compound_score"`
	Label         Label   `json:"sentiment_label" yaml:"sentiment_label"`
}

// Scored reports whether the review carries a sentiment score.
func (r *Review) Scored() bool {
	return r != nil && r.Sentiment != nil
}

// Text returns the string representation of a decoded review value.
// Null becomes the empty string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprint(v)
}
