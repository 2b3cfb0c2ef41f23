package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// ErrScorerUnavailable is returned when no polarity scorer was provided.
var ErrScorerUnavailable = errors.New("sentiment scorer unavailable")

// PolarityScorer turns text into a compound score in [-1, 1].
type PolarityScorer interface {
	Compound(text string) float64
}

// ScorerFunc adapts a plain function to PolarityScorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Compound(text string) float64 {
	return f(text)
}

// Score returns a scored copy of every review. Either all reviews are
// scored or an error is returned; the input is never modified.
func Score(reviews []*Review, scorer PolarityScorer) ([]*Review, error) {
	if scorer == nil {
		return nil, ErrScorerUnavailable
	}

	list := make([]*Review, 0, len(reviews))
	for i, r := range reviews {
		if r == nil {
			return nil, fmt.Errorf("review at position %d is nil", i)
		}

		s := scorer.Compound(r.Text)
		if math.IsNaN(s) {
			return nil, fmt.Errorf("scorer returned NaN for review %q", r.ID)
		}
		s = math.Max(-1, math.Min(1, s))

		c := *r
		c.Sentiment = &Sentiment{
			CompoundScore: s,
			Label:         Classify(s),
		}
		list = append(list, &c)
	}

	return list, nil
}

// CountLabels tallies the labels of the scored reviews.
func CountLabels(reviews []*Review) map[Label]int {
	m := make(map[Label]int, len(Labels))
	for _, l := range Labels {
		m[l] = 0
	}
	for _, r := range reviews {
		if r.Scored() {
			m[r.Sentiment.Label]++
		}
	}
	return m
}
