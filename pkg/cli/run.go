package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:            "run",
		Usage:           "Import, score and aggregate reviews in one step",
		UsageText:       "revpulse run --file reviews.json [--scorer bayes]",
		HideHelpCommand: true,
		Action:          cmdRun,
		Flags: []cli.Flag{
			newFileFlag(),
			newScorerFlag(),
		},
	}
}

func cmdRun(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	files := cmd.StringSlice(fileFlag)
	if len(files) == 0 {
		return cli.ShowSubcommandHelp(cmd)
	}

	if _, err := importFiles(ctx, cfg, files); err != nil {
		return err
	}

	if _, err := scoreReviews(ctx, cfg, cmd.String(scorerFlag), false); err != nil {
		return err
	}

	list, err := aggregateReviews(cfg, "")
	if err != nil {
		return err
	}

	if err := encode(list); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return nil
}
