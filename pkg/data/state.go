package data

import (
	"database/sql"
	"errors"
	"fmt"
)

var (
	stateQueries = map[string]string{
		"review": "SELECT COUNT(*) FROM review",
		"scored": "SELECT COUNT(*) FROM review_sentiment",
		"bank":   "SELECT COUNT(DISTINCT bank) FROM review",
	}

	selectBankStatsSQL = `SELECT r.bank, COUNT(r.id), COUNT(s.review_id), AVG(s.compound_score)
		FROM review r
		LEFT JOIN review_sentiment s ON r.id = s.review_id
		GROUP BY r.bank
		ORDER BY r.bank
	`
)

// BankStats summarizes the stored reviews of a single bank.
type BankStats struct {
	Bank      string   `json:"bank" yaml:"bank"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Reviews   int64    `json:"reviews" yaml:"reviews"`
	Scored    int64    `json:"scored" yaml:"scored"`
	MeanScore *float64 `json:"mean_compound_score,omitempty" yaml:"mean_compound_score,omitempty"`
}

// GetDataState returns the current row counts of the database.
func GetDataState(db *DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64)
	for k, v := range stateQueries {
		count, err := getCount(db, v)
		if err != nil {
			return nil, fmt.Errorf("error getting %s count: %w", k, err)
		}
		state[k] = count
	}

	return state, nil
}

// GetBankStats returns review and score counts per stored bank.
func GetBankStats(db *DB) ([]*BankStats, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectBankStatsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute bank stats statement: %w", err)
	}
	defer rows.Close()

	list := make([]*BankStats, 0)
	for rows.Next() {
		s := &BankStats{}
		var avg sql.NullFloat64
		if err := rows.Scan(&s.Bank, &s.Reviews, &s.Scored, &avg); err != nil {
			return nil, fmt.Errorf("failed to scan bank stats row: %w", err)
		}
		if avg.Valid {
			v := avg.Float64
			s.MeanScore = &v
		}
		list = append(list, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank stats rows: %w", err)
	}

	return list, nil
}

func getCount(db *DB, query string) (int64, error) {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan row: %w", err)
	}

	return count, nil
}
