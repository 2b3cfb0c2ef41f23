package bayes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func TestAnalyzer(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	assert.Equal(t, 0.0, a.Compound(""))
	assert.Equal(t, 0.0, a.Compound("  "))

	pos := a.Compound("I love this wonderful app, it is the best, excellent and amazing")
	neg := a.Compound("terrible awful horrible app, the worst waste, it is boring and bad")

	for _, s := range []float64{pos, neg} {
		assert.GreaterOrEqual(t, s, -1.0)
		assert.LessOrEqual(t, s, 1.0)
	}
	assert.Greater(t, pos, neg)
	assert.Equal(t, pos, a.Compound("I love this wonderful app, it is the best, excellent and amazing"))
}

func TestAnalyzer_ImplementsScorer(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	var s sentiment.PolarityScorer = a
	out, err := sentiment.Score([]*sentiment.Review{{Bank: "CBE", Rating: 1, Text: ""}}, s)
	require.NoError(t, err)
	assert.Equal(t, sentiment.Neutral, out[0].Sentiment.Label)
}
