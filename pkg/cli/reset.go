package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/data"
)

const yesFlag = "yes"

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:            "reset",
		Usage:           "Delete all imported data and start fresh",
		HideHelpCommand: true,
		Action:          cmdReset,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    yesFlag,
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
	}
}

func cmdReset(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	if cfg.Driver != data.DriverSQLite {
		return fmt.Errorf("reset only supports the %s driver", data.DriverSQLite)
	}

	dbPath, err := cfg.dataSource()
	if err != nil {
		return err
	}

	if !cmd.Bool(yesFlag) {
		fmt.Fprintf(stdout, "This will permanently delete all data in %s\n", dbPath)
		fmt.Fprint(stdout, "Are you sure? [y/N]: ")

		answer, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	// close the DB before deleting the file
	cfg.close()

	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting database: %w", err)
	}
	slog.Info("database deleted", "path", dbPath)

	if err := data.Init(cfg.Driver, dbPath); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}

	slog.Info("database re-initialized", "path", dbPath)
	fmt.Fprintln(stdout, "Reset complete.")
	return nil
}
