package vader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mchmarny/revpulse/pkg/net"
)

const (
	// LexiconFileName is the default local name of the lexicon file.
	LexiconFileName = "vader_lexicon.txt"
	// LexiconURL is the canonical location of the VADER lexicon.
	LexiconURL = "https://raw.githubusercontent.com/cjhutto/vaderSentiment/master/vaderSentiment/vader_lexicon.txt"

	dirMode = 0700
)

// Lexicon maps lower case tokens to their mean valence.
type Lexicon map[string]float64

// LoadLexicon parses the tab separated token, mean, stddev, ratings format.
// Only the first two columns are used.
func LoadLexicon(r io.Reader) (Lexicon, error) {
	lex := make(Lexicon)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := strings.TrimRight(s.Text(), "\r\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		parts := strings.Split(text, "\t")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid lexicon line %d: %q", line, text)
		}

		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid valence on lexicon line %d: %w", line, err)
		}
		lex[strings.ToLower(parts[0])] = v
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("error reading lexicon: %w", err)
	}

	if len(lex) == 0 {
		return nil, errors.New("lexicon is empty")
	}

	return lex, nil
}

// EnsureLexicon downloads the lexicon from url when path does not exist.
// It does nothing when the file is already present.
func EnsureLexicon(ctx context.Context, path, url string) error {
	if path == "" {
		return errors.New("lexicon path required")
	}

	if _, err := os.Stat(path); err == nil {
		slog.Debug("lexicon present", "path", path)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking lexicon file %s: %w", path, err)
	}

	if url == "" {
		return fmt.Errorf("lexicon not found at %s and no download URL configured", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("failed to create lexicon dir: %w", err)
	}

	slog.Info("downloading sentiment lexicon", "url", url, "path", path)
	if err := net.Download(ctx, url, path); err != nil {
		return fmt.Errorf("failed to download lexicon from %s: %w", url, err)
	}

	return nil
}

// Open ensures the lexicon is available locally and returns an analyzer for it.
func Open(ctx context.Context, path, url string) (*Analyzer, error) {
	if err := EnsureLexicon(ctx, path, url); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening lexicon file %s: %w", path, err)
	}
	defer f.Close()

	lex, err := LoadLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("error loading lexicon %s: %w", path, err)
	}

	slog.Debug("lexicon loaded", "path", path, "tokens", len(lex))
	return NewAnalyzer(lex)
}
