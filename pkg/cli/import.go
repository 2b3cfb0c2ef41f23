package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/sentiment"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:            "import",
		Aliases:         []string{"i"},
		Usage:           "Import reviews from local files",
		UsageText:       "revpulse import --file reviews.json --file more.jsonl",
		HideHelpCommand: true,
		Action:          cmdImport,
		Flags: []cli.Flag{
			newFileFlag(),
		},
	}
}

func newFileFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:     fileFlag,
		Aliases:  []string{"f"},
		Usage:    "Review file in JSON array or JSON lines format (repeatable)",
		Required: true,
	}
}

// ImportResult describes a completed import.
type ImportResult struct {
	Files    []*data.LoadResult `json:"files" yaml:"files"`
	Loaded   int                `json:"loaded" yaml:"loaded"`
	Skipped  int                `json:"skipped" yaml:"skipped"`
	Inserted int                `json:"inserted" yaml:"inserted"`
	Unknown  []string           `json:"unknown_banks,omitempty" yaml:"unknown_banks,omitempty"`
}

func cmdImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	files := cmd.StringSlice(fileFlag)
	if len(files) == 0 {
		return cli.ShowSubcommandHelp(cmd)
	}

	res, err := importFiles(ctx, cfg, files)
	if err != nil {
		return err
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}

func importFiles(ctx context.Context, cfg *appConfig, files []string) (*ImportResult, error) {
	db, err := cfg.getDB()
	if err != nil {
		return nil, err
	}

	loaded, err := data.LoadReviewFiles(ctx, files)
	if err != nil {
		return nil, fmt.Errorf("loading reviews: %w", err)
	}

	res := &ImportResult{Files: loaded}
	reviews := make([]*sentiment.Review, 0)
	for _, l := range loaded {
		res.Loaded += l.Loaded
		res.Skipped += l.Skipped
		reviews = append(reviews, l.Reviews...)
	}
	res.Unknown = normalizeBanks(cfg.Config, reviews)

	n, err := data.SaveReviews(db, reviews)
	if err != nil {
		return nil, fmt.Errorf("saving reviews: %w", err)
	}
	res.Inserted = n

	slog.Info("import done", "files", len(files), "loaded", res.Loaded, "skipped", res.Skipped, "inserted", n)
	return res, nil
}

// normalizeBanks replaces bank names and app IDs with the configured bank
// code and returns the banks that are not configured.
func normalizeBanks(c *config.Config, reviews []*sentiment.Review) []string {
	unknown := make([]string, 0)
	for _, r := range reviews {
		if b := c.ResolveBank(r.Bank); b != nil {
			r.Bank = b.Code
			continue
		}
		if !data.Contains(unknown, r.Bank) {
			slog.Warn("bank not in config", "bank", r.Bank)
			unknown = append(unknown, r.Bank)
		}
	}
	return unknown
}
