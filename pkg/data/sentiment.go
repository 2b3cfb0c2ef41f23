package data

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

const (
	upsertSentimentSQL = `INSERT INTO review_sentiment (review_id, compound_score, label, scorer, scored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (review_id) DO UPDATE SET
			compound_score = excluded.compound_score,
			label = excluded.label,
			scorer = excluded.scorer,
			scored_at = excluded.scored_at
	`

	deleteSentimentSQL = `DELETE FROM review_sentiment`
)

// SaveSentiments stores the sentiment of every scored review, replacing
// earlier scores. Unscored reviews are skipped.
func SaveSentiments(db *DB, reviews []*sentiment.Review, scorer string) (int, error) {
	return saveSentiments(db, reviews, scorer, false)
}

// ReplaceSentiments deletes all stored scores and saves the scored reviews
// in the same transaction. A failed save leaves the earlier scores intact.
func ReplaceSentiments(db *DB, reviews []*sentiment.Review, scorer string) (int, error) {
	return saveSentiments(db, reviews, scorer, true)
}

func saveSentiments(db *DB, reviews []*sentiment.Review, scorer string, replace bool) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if replace {
		res, err := tx.Exec(deleteSentimentSQL)
		if err != nil {
			rollbackTransaction(tx)
			return 0, fmt.Errorf("failed to delete sentiments: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			slog.Debug("sentiments deleted", "count", n)
		}
	}

	stmt, err := tx.Prepare(db.rebind(upsertSentimentSQL))
	if err != nil {
		rollbackTransaction(tx)
		return 0, fmt.Errorf("failed to prepare sentiment upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeFormat)
	saved := 0
	for _, r := range reviews {
		if !r.Scored() {
			continue
		}
		if r.ID == "" {
			rollbackTransaction(tx)
			return 0, fmt.Errorf("scored review for bank %s has no id", r.Bank)
		}

		if _, err := stmt.Exec(r.ID, r.Sentiment.CompoundScore, string(r.Sentiment.Label), scorer, now); err != nil {
			rollbackTransaction(tx)
			return 0, fmt.Errorf("failed to save sentiment for review %s: %w", r.ID, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return saved, nil
}
