package data

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

const (
	insertReviewSQL = `INSERT INTO review (id, bank, rating, text, date, imported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`

	selectReviewSQL = `SELECT r.id, r.bank, r.rating, r.text, r.date, s.compound_score, s.label
		FROM review r
		LEFT JOIN review_sentiment s ON r.id = s.review_id
	`

	reviewOrderSQL = ` ORDER BY r.bank, r.rating, r.id`

	timeFormat = time.RFC3339
)

// reviewNamespace scopes the derived review IDs.
var reviewNamespace = uuid.MustParse("6f1d3c4e-8a0b-4c7e-9d2f-5b3a1e7c9d10")

// ReviewCriteria filters reviews. Nil fields match everything.
type ReviewCriteria struct {
	Bank     *string `json:"bank,omitempty"`
	Rating   *int    `json:"rating,omitempty"`
	Label    *string `json:"label,omitempty"`
	Unscored bool    `json:"unscored,omitempty"`
	Limit    int     `json:"limit,omitempty"`
}

// ReviewID derives the ID of the record at position pos of source. The
// same record read from the same place yields the same ID, identical
// records at different positions do not.
func ReviewID(source string, pos int, r *sentiment.Review) string {
	key := strings.Join([]string{source, strconv.Itoa(pos), r.Bank, strconv.Itoa(r.Rating), r.Text, r.Date}, "\x00")
	return uuid.NewSHA1(reviewNamespace, []byte(key)).String()
}

// SaveReviews inserts the reviews that are not yet stored and returns the
// number of inserted rows. Reviews without an ID get a random one.
func SaveReviews(db *DB, reviews []*sentiment.Review) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(db.rebind(insertReviewSQL))
	if err != nil {
		rollbackTransaction(tx)
		return 0, fmt.Errorf("failed to prepare review insert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeFormat)
	inserted := 0
	for _, r := range reviews {
		if r == nil {
			continue
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}

		res, err := stmt.Exec(r.ID, r.Bank, r.Rating, r.Text, r.Date, now)
		if err != nil {
			rollbackTransaction(tx)
			return 0, fmt.Errorf("failed to insert review %s: %w", r.ID, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			rollbackTransaction(tx)
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// QueryReviews returns the reviews matching c along with their sentiment
// when scored.
func QueryReviews(db *DB, c *ReviewCriteria) ([]*sentiment.Review, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if c == nil {
		c = &ReviewCriteria{}
	}

	conds := make([]string, 0)
	args := make([]any, 0)

	if c.Bank != nil {
		conds = append(conds, "r.bank = ?")
		args = append(args, *c.Bank)
	}
	if c.Rating != nil {
		conds = append(conds, "r.rating = ?")
		args = append(args, *c.Rating)
	}
	if c.Label != nil {
		conds = append(conds, "s.label = ?")
		args = append(args, *c.Label)
	}
	if c.Unscored {
		conds = append(conds, "s.review_id IS NULL")
	}

	q := selectReviewSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += reviewOrderSQL
	if c.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, c.Limit)
	}

	rows, err := db.Query(db.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute review select statement: %w", err)
	}
	defer rows.Close()

	list := make([]*sentiment.Review, 0)
	for rows.Next() {
		r := &sentiment.Review{}
		var score sql.NullFloat64
		var label sql.NullString
		if err := rows.Scan(&r.ID, &r.Bank, &r.Rating, &r.Text, &r.Date, &score, &label); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		if score.Valid && label.Valid {
			r.Sentiment = &sentiment.Sentiment{
				CompoundScore: score.Float64,
				Label:         sentiment.Label(label.String),
			}
		}
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate review rows: %w", err)
	}

	return list, nil
}

func rollbackTransaction(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil {
		slog.Error("failed to rollback transaction", "error", err)
	}
}
