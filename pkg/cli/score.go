package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/bayes"
	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/sentiment"
	"github.com/mchmarny/revpulse/pkg/vader"
)

const freshFlag = "fresh"

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:            "score",
		Aliases:         []string{"s"},
		Usage:           "Score the sentiment of imported reviews",
		HideHelpCommand: true,
		Action:          cmdScore,
		Flags: []cli.Flag{
			newScorerFlag(),
			&cli.BoolFlag{
				Name:  freshFlag,
				Usage: "Discard existing scores and score all reviews again",
			},
		},
	}
}

func newScorerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  scorerFlag,
		Usage: fmt.Sprintf("Polarity scorer [%s] (optional, defaults to config)", strings.Join(config.Scorers, ", ")),
	}
}

// ScoreResult describes a completed scoring pass.
type ScoreResult struct {
	Scorer string                  `json:"scorer" yaml:"scorer"`
	Scored int                     `json:"scored" yaml:"scored"`
	Labels map[sentiment.Label]int `json:"labels" yaml:"labels"`
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	res, err := scoreReviews(ctx, cfg, cmd.String(scorerFlag), cmd.Bool(freshFlag))
	if err != nil {
		return err
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}

func scoreReviews(ctx context.Context, cfg *appConfig, name string, fresh bool) (*ScoreResult, error) {
	if name == "" {
		name = cfg.Config.Sentiment.Scorer
	}

	scorer, err := newScorer(ctx, cfg, name)
	if err != nil {
		return nil, err
	}

	db, err := cfg.getDB()
	if err != nil {
		return nil, err
	}

	save := data.SaveSentiments
	if fresh {
		save = data.ReplaceSentiments
	}

	list, err := data.QueryReviews(db, &data.ReviewCriteria{Unscored: !fresh})
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}

	scored, err := sentiment.Score(list, scorer)
	if err != nil {
		return nil, fmt.Errorf("scoring reviews: %w", err)
	}

	n, err := save(db, scored, name)
	if err != nil {
		return nil, fmt.Errorf("saving scores: %w", err)
	}

	slog.Info("scoring done", "scorer", name, "scored", n)
	return &ScoreResult{
		Scorer: name,
		Scored: n,
		Labels: sentiment.CountLabels(scored),
	}, nil
}

func newScorer(ctx context.Context, cfg *appConfig, name string) (sentiment.PolarityScorer, error) {
	switch name {
	case config.ScorerVader:
		a, err := vader.Open(ctx, cfg.Config.LexiconPath(cfg.HomeDir), cfg.Config.Sentiment.LexiconURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sentiment.ErrScorerUnavailable, err)
		}
		return a, nil
	case config.ScorerBayes:
		a, err := bayes.New()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sentiment.ErrScorerUnavailable, err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("invalid scorer: %s (permitted options: %v)", name, config.Scorers)
}
