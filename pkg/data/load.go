package data

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/revpulse/pkg/sentiment"
)

const (
	minRating = 1
	maxRating = 5

	loadConcurrency = 4
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadResult describes a single loaded review file.
type LoadResult struct {
	File    string              `json:"file" yaml:"file"`
	Loaded  int                 `json:"loaded" yaml:"loaded"`
	Skipped int                 `json:"skipped" yaml:"skipped"`
	Reviews []*sentiment.Review `json:"-" yaml:"-"`
}

// rawReview mirrors the file record before validation.
type rawReview struct {
	ID     string `json:"id"`
	Bank   string `json:"bank"`
	Rating any    `json:"rating"`
	Review any    `json:"review"`
	Date   any    `json:"date"`
}

// LoadReviews reads a JSON array or JSON lines file of reviews. Records
// without a bank or with a rating outside 1..5 are skipped. Records without
// an ID get one derived from the absolute file path and their position.
func LoadReviews(path string) (*LoadResult, error) {
	if path == "" {
		return nil, errors.New("review file path required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open review file %s: %w", path, err)
	}
	defer f.Close()

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}

	res, err := DecodeReviews(source, f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode review file %s: %w", path, err)
	}
	res.File = path

	slog.Debug("reviews loaded", "file", path, "loaded", res.Loaded, "skipped", res.Skipped)
	return res, nil
}

// DecodeReviews decodes reviews from r. The input is either a single JSON
// array or a stream of JSON objects. Missing IDs are derived from source and
// the record position, counting skipped records.
func DecodeReviews(source string, r io.Reader) (*LoadResult, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &LoadResult{Reviews: []*sentiment.Review{}}, nil
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	res := &LoadResult{Reviews: make([]*sentiment.Review, 0)}

	if first == '[' {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to read array start: %w", err)
		}
		for dec.More() {
			if err := decodeOne(dec, source, res); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("failed to read array end: %w", err)
		}
		return res, nil
	}

	for {
		err := decodeOne(dec, source, res)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func decodeOne(dec *json.Decoder, source string, res *LoadResult) error {
	var raw rawReview
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return err
		}
		return fmt.Errorf("failed to decode review %d: %w", res.Loaded+res.Skipped+1, err)
	}

	pos := res.Loaded + res.Skipped
	r, ok := raw.toReview()
	if !ok {
		res.Skipped++
		return nil
	}
	if r.ID == "" {
		r.ID = ReviewID(source, pos, r)
	}
	res.Loaded++
	res.Reviews = append(res.Reviews, r)
	return nil
}

func (raw *rawReview) toReview() (*sentiment.Review, bool) {
	bank := strings.TrimSpace(raw.Bank)
	if bank == "" {
		return nil, false
	}

	rating, ok := toRating(raw.Rating)
	if !ok || rating < minRating || rating > maxRating {
		return nil, false
	}

	r := &sentiment.Review{
		ID:     strings.TrimSpace(raw.ID),
		Bank:   bank,
		Rating: rating,
		Text:   sentiment.Text(raw.Review),
		Date:   sentiment.Text(raw.Date),
	}
	return r, true
}

func toRating(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// peekNonSpace skips a leading byte order mark and white space and returns
// the next byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return 0, err
		}
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// LoadReviewFiles loads the files concurrently. Results are returned in the
// order of paths; the first error cancels the rest.
func LoadReviewFiles(ctx context.Context, paths []string) ([]*LoadResult, error) {
	results := make([]*LoadResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := LoadReviews(p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
