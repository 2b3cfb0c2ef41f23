package sentiment

import (
	"cmp"
	"log/slog"
	"slices"
)

// Aggregate summarizes the scored reviews of one bank and star rating.
type Aggregate struct {
	Bank              string  `json:"bank" yaml:"bank"`
	BankName          string  `json:"bank_name,omitempty" yaml:"bank_name,omitempty"`
	Rating            int     `json:"rating" yaml:"rating"`
	MeanCompoundScore float64 `json:"mean_compound_score" yaml:"mean_compound_score"`
	Positive          int     `json:"POSITIVE" yaml:"POSITIVE"`
	Negative          int     `json:"NEGATIVE" yaml:"NEGATIVE"`
	Neutral           int     `json:"NEUTRAL" yaml:"NEUTRAL"`
	TotalReviews      int     `json:"total_reviews" yaml:"total_reviews"`
}

type groupKey struct {
	bank   string
	rating int
}

type accumulator struct {
	sum    float64
	count  int
	labels [3]int
}

// AggregateByBankRating groups scored reviews by bank and rating. It
// returns nil when none of the reviews carry a sentiment score; unscored
// reviews in a partially scored set are ignored. Label counts follow the
// compound score, not the stored label.
func AggregateByBankRating(reviews []*Review) []*Aggregate {
	groups := make(map[groupKey]*accumulator)
	for _, r := range reviews {
		if !r.Scored() {
			continue
		}
		k := groupKey{bank: r.Bank, rating: r.Rating}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.sum += r.Sentiment.CompoundScore
		acc.count++
		l := Classify(r.Sentiment.CompoundScore)
		if l != r.Sentiment.Label {
			slog.Debug("stored label does not match score", "bank", r.Bank, "label", r.Sentiment.Label, "score", r.Sentiment.CompoundScore)
		}
		acc.labels[l.index()]++
	}

	if len(groups) == 0 {
		slog.Info("skipping aggregation: sentiment scores not available", "reviews", len(reviews))
		return nil
	}

	list := make([]*Aggregate, 0, len(groups))
	for k, acc := range groups {
		list = append(list, &Aggregate{
			Bank:              k.bank,
			Rating:            k.rating,
			MeanCompoundScore: acc.sum / float64(acc.count),
			Positive:          acc.labels[Positive.index()],
			Negative:          acc.labels[Negative.index()],
			Neutral:           acc.labels[Neutral.index()],
			TotalReviews:      acc.labels[0] + acc.labels[1] + acc.labels[2],
		})
	}

	slices.SortFunc(list, func(a, b *Aggregate) int {
		if c := cmp.Compare(a.Bank, b.Bank); c != 0 {
			return c
		}
		return cmp.Compare(a.Rating, b.Rating)
	})

	slog.Debug("aggregated sentiment", "groups", len(list), "reviews", len(reviews))
	return list
}
