package cli

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryParamInt(r *http.Request, key string, def int) (int, bool) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return def, true
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

func bankParam(r *http.Request, conf *config.Config) *string {
	return resolveBank(conf, r.URL.Query().Get("b"))
}

func aggregatesAPIHandler(db *data.DB, conf *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := data.QueryReviews(db, &data.ReviewCriteria{Bank: bankParam(r, conf)})
		if err != nil {
			slog.Error("failed to query reviews", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to query reviews")
			return
		}

		writeJSON(w, http.StatusOK, nameAggregates(conf, sentiment.AggregateByBankRating(list)))
	}
}

func reviewsAPIHandler(db *data.DB, conf *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := &data.ReviewCriteria{Bank: bankParam(r, conf)}

		limit, ok := queryParamInt(r, "n", queryResultLimitDefault)
		if !ok || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		c.Limit = limit

		if r.URL.Query().Get("r") != "" {
			rating, ok := queryParamInt(r, "r", 0)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid rating")
				return
			}
			c.Rating = &rating
		}

		if v := r.URL.Query().Get("l"); v != "" {
			l, err := sentiment.ParseLabel(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid label")
				return
			}
			s := string(l)
			c.Label = &s
		}

		list, err := data.QueryReviews(db, c)
		if err != nil {
			slog.Error("failed to query reviews", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to query reviews")
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func stateAPIHandler(db *data.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := data.GetDataState(db)
		if err != nil {
			slog.Error("failed to get data state", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get data state")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func banksAPIHandler(db *data.DB, conf *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := bankStats(db, conf)
		if err != nil {
			slog.Error("failed to get bank stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get bank stats")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
