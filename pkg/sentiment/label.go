package sentiment

import (
	"fmt"
	"strings"
)

// Label is the categorical sentiment derived from a compound score.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
	Neutral  Label = "NEUTRAL"

	// PositiveThreshold is the lowest compound score labeled POSITIVE.
	PositiveThreshold = 0.05
	// NegativeThreshold is the highest compound score labeled NEGATIVE.
	NegativeThreshold = -0.05
)

// Labels lists every label in aggregate column order.
var Labels = []Label{Positive, Negative, Neutral}

// Classify maps a compound score to its label.
func Classify(score float64) Label {
	switch {
	case score >= PositiveThreshold:
		return Positive
	case score <= NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// ParseLabel accepts a label in any case.
func ParseLabel(s string) (Label, error) {
	l := Label(strings.ToUpper(strings.TrimSpace(s)))
	switch l {
	case Positive, Negative, Neutral:
		return l, nil
	}
	return "", fmt.Errorf("invalid sentiment label: %q (permitted options: %v)", s, Labels)
}

func (l Label) index() int {
	switch l {
	case Positive:
		return 0
	case Negative:
		return 1
	default:
		return 2
	}
}
