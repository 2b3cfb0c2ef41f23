//go:build integration

package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func setupPostgresDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("revpulse"),
		postgres.WithUsername("revpulse"),
		postgres.WithPassword("revpulse"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Init(DriverPostgres, dsn))
	require.NoError(t, Init(DriverPostgres, dsn))

	db, err := GetDB(DriverPostgres, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPostgres_RoundTrip(t *testing.T) {
	db := setupPostgresDB(t)
	list := seedReviews(t, db)

	scored, err := sentiment.Score(list, sentiment.ScorerFunc(func(text string) float64 {
		if text == "great app" {
			return 0.6
		}
		return 0
	}))
	require.NoError(t, err)

	n, err := SaveSentiments(db, scored, "test")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	label := string(sentiment.Positive)
	pos, err := QueryReviews(db, &ReviewCriteria{Label: &label, Limit: 10})
	require.NoError(t, err)
	require.Len(t, pos, 1)
	assert.Equal(t, "great app", pos[0].Text)

	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(4), state["review"])
	assert.Equal(t, int64(4), state["scored"])

	stats, err := GetBankStats(db)
	require.NoError(t, err)
	assert.Len(t, stats, 2)

	n, err = ReplaceSentiments(db, scored[:1], "test")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	state, err = GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state["scored"])
}
