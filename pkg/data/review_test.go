package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func seedReviews(t *testing.T, db *DB) []*sentiment.Review {
	t.Helper()
	list := []*sentiment.Review{
		{Bank: "CBE", Rating: 5, Text: "great app", Date: "2024-05-01"},
		{Bank: "CBE", Rating: 1, Text: "keeps crashing"},
		{Bank: "CBE", Rating: 5, Text: "works"},
		{Bank: "BoAMobile", Rating: 3, Text: "ok"},
	}
	n, err := SaveReviews(db, list)
	require.NoError(t, err)
	require.Equal(t, len(list), n)
	return list
}

func TestReviewID_Deterministic(t *testing.T) {
	a := &sentiment.Review{Bank: "CBE", Rating: 5, Text: "great app"}
	b := &sentiment.Review{Bank: "CBE", Rating: 5, Text: "great app"}
	c := &sentiment.Review{Bank: "CBE", Rating: 4, Text: "great app"}

	assert.Equal(t, ReviewID("a.json", 0, a), ReviewID("a.json", 0, b))
	assert.NotEqual(t, ReviewID("a.json", 0, a), ReviewID("a.json", 1, b))
	assert.NotEqual(t, ReviewID("a.json", 0, a), ReviewID("b.json", 0, b))
	assert.NotEqual(t, ReviewID("a.json", 0, a), ReviewID("a.json", 0, c))
}

func TestSaveReviews_NilDB(t *testing.T) {
	_, err := SaveReviews(nil, nil)
	assert.Error(t, err)
}

func TestSaveReviews_IgnoresDuplicates(t *testing.T) {
	db := setupTestDB(t)
	list := seedReviews(t, db)

	for _, r := range list {
		assert.NotEmpty(t, r.ID)
	}

	again := []*sentiment.Review{
		{ID: list[0].ID, Bank: "CBE", Rating: 5, Text: "great app", Date: "2024-05-01"},
		{Bank: "CBE", Rating: 5, Text: "great app", Date: "2024-05-01"},
	}
	n, err := SaveReviews(db, again)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NotEqual(t, list[0].ID, again[1].ID)
}

func TestQueryReviews_All(t *testing.T) {
	db := setupTestDB(t)
	seedReviews(t, db)

	list, err := QueryReviews(db, nil)
	require.NoError(t, err)
	require.Len(t, list, 4)

	assert.Equal(t, "BoAMobile", list[0].Bank)
	assert.Equal(t, "CBE", list[1].Bank)
	assert.Equal(t, 1, list[1].Rating)
	for _, r := range list {
		assert.Nil(t, r.Sentiment)
	}
}

func TestQueryReviews_Criteria(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedReviews(t, db)

	seeded[0].Sentiment = &sentiment.Sentiment{CompoundScore: 0.62, Label: sentiment.Positive}
	_, err := SaveSentiments(db, seeded[:1], "test")
	require.NoError(t, err)

	bank := "CBE"
	rating := 5
	label := string(sentiment.Positive)

	tests := []struct {
		name     string
		criteria *ReviewCriteria
		want     int
	}{
		{"bank", &ReviewCriteria{Bank: &bank}, 3},
		{"bank and rating", &ReviewCriteria{Bank: &bank, Rating: &rating}, 2},
		{"label", &ReviewCriteria{Label: &label}, 1},
		{"unscored", &ReviewCriteria{Unscored: true}, 3},
		{"limit", &ReviewCriteria{Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := QueryReviews(db, tt.criteria)
			require.NoError(t, err)
			assert.Len(t, list, tt.want)
		})
	}

	list, err := QueryReviews(db, &ReviewCriteria{Label: &label})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Sentiment)
	assert.Equal(t, seeded[0].ID, list[0].ID)
	assert.InDelta(t, 0.62, list[0].Sentiment.CompoundScore, 1e-9)
	assert.Equal(t, sentiment.Positive, list[0].Sentiment.Label)
	assert.Equal(t, "2024-05-01", list[0].Date)
}
