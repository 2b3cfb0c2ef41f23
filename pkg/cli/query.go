package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/sentiment"
)

const (
	queryResultLimitDefault = 100

	ratingFlag   = "rating"
	labelFlag    = "label"
	unscoredFlag = "unscored"
	limitFlag    = "limit"
)

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Commands: []*cli.Command{
			{
				Name:    "reviews",
				Aliases: []string{"r"},
				Usage:   "List stored reviews with their sentiment",
				Action:  cmdQueryReviews,
				Flags: []cli.Flag{
					newBankFlag(),
					&cli.IntFlag{
						Name:    ratingFlag,
						Aliases: []string{"r"},
						Usage:   "Star rating 1-5 (optional)",
					},
					&cli.StringFlag{
						Name:    labelFlag,
						Aliases: []string{"l"},
						Usage:   fmt.Sprintf("Sentiment label %v (optional)", sentiment.Labels),
					},
					&cli.BoolFlag{
						Name:  unscoredFlag,
						Usage: "Only reviews without a score",
					},
					&cli.IntFlag{
						Name:  limitFlag,
						Usage: "Limits number of result returned",
						Value: queryResultLimitDefault,
					},
				},
			},
		},
	}
}

func cmdQueryReviews(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	c := &data.ReviewCriteria{
		Bank:     resolveBank(cfg.Config, cmd.String(bankFlag)),
		Unscored: cmd.Bool(unscoredFlag),
		Limit:    cmd.Int(limitFlag),
	}

	if cmd.IsSet(ratingFlag) {
		r := cmd.Int(ratingFlag)
		c.Rating = &r
	}

	if v := cmd.String(labelFlag); v != "" {
		l, err := sentiment.ParseLabel(v)
		if err != nil {
			return err
		}
		s := string(l)
		c.Label = &s
	}

	db, err := cfg.getDB()
	if err != nil {
		return err
	}

	list, err := data.QueryReviews(db, c)
	if err != nil {
		return fmt.Errorf("failed to query reviews: %w", err)
	}

	if err := encode(list); err != nil {
		return fmt.Errorf("error encoding list: %w", err)
	}

	return nil
}
