package bayes

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	cdipaoloSentiment "github.com/cdipaolo/sentiment"
)

const positiveClass = 1

// Analyzer scores text with the pretrained naive Bayes model shipped with
// github.com/cdipaolo/sentiment.
type Analyzer struct {
	model cdipaoloSentiment.Models
}

// New restores the embedded model.
func New() (*Analyzer, error) {
	model, err := cdipaoloSentiment.Restore()
	if err != nil {
		return nil, fmt.Errorf("error restoring sentiment model: %w", err)
	}

	if model[cdipaoloSentiment.English] == nil {
		return nil, errors.New("sentiment model has no english classifier")
	}

	slog.Debug("bayes sentiment model restored")
	return &Analyzer{model: model}, nil
}

// Compound maps the probability of the positive class to [-1, 1].
func (a *Analyzer) Compound(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	class, p := a.model[cdipaoloSentiment.English].Probability(text)
	if class == positiveClass {
		return 2*p - 1
	}
	return 1 - 2*p
}
