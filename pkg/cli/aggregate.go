package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func aggregateCommand() *cli.Command {
	return &cli.Command{
		Name:            "aggregate",
		Aliases:         []string{"agg"},
		Usage:           "Summarize review sentiment by bank and rating",
		HideHelpCommand: true,
		Action:          cmdAggregate,
		Flags: []cli.Flag{
			newBankFlag(),
		},
	}
}

func newBankFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    bankFlag,
		Aliases: []string{"b"},
		Usage:   "Bank code, name or app ID (optional)",
	}
}

func cmdAggregate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	list, err := aggregateReviews(cfg, cmd.String(bankFlag))
	if err != nil {
		return err
	}

	if err := encode(list); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}

func aggregateReviews(cfg *appConfig, bank string) ([]*sentiment.Aggregate, error) {
	db, err := cfg.getDB()
	if err != nil {
		return nil, err
	}

	list, err := data.QueryReviews(db, &data.ReviewCriteria{Bank: resolveBank(cfg.Config, bank)})
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}

	return nameAggregates(cfg.Config, sentiment.AggregateByBankRating(list)), nil
}

// nameAggregates sets the configured display name on each aggregate and
// never returns nil.
func nameAggregates(conf *config.Config, aggs []*sentiment.Aggregate) []*sentiment.Aggregate {
	if aggs == nil {
		return []*sentiment.Aggregate{}
	}
	for _, a := range aggs {
		if n := conf.BankName(a.Bank); n != a.Bank {
			a.BankName = n
		}
	}
	return aggs
}

// resolveBank maps the user supplied bank to its configured code. Unknown
// values are used as is; empty returns nil.
func resolveBank(conf *config.Config, val string) *string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if b := conf.ResolveBank(val); b != nil {
		return &b.Code
	}
	return &val
}
