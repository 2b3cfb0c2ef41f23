package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
)

func banksCommand() *cli.Command {
	return &cli.Command{
		Name:            "banks",
		Usage:           "List configured banks with their review and score counts",
		HideHelpCommand: true,
		Action:          cmdBanks,
	}
}

func cmdBanks(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	db, err := cfg.getDB()
	if err != nil {
		return err
	}

	list, err := bankStats(db, cfg.Config)
	if err != nil {
		return err
	}

	if err := encode(list); err != nil {
		return fmt.Errorf("error encoding list: %w", err)
	}

	return nil
}

// bankStats lists every configured bank in config order followed by stored
// banks that are not configured.
func bankStats(db *data.DB, conf *config.Config) ([]*data.BankStats, error) {
	stored, err := data.GetBankStats(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get bank stats: %w", err)
	}

	byCode := make(map[string]*data.BankStats, len(stored))
	for _, s := range stored {
		byCode[s.Bank] = s
	}

	list := make([]*data.BankStats, 0, len(conf.Banks)+len(stored))
	for _, b := range conf.Banks {
		s, ok := byCode[b.Code]
		if !ok {
			s = &data.BankStats{Bank: b.Code}
		}
		s.Name = b.Name
		list = append(list, s)
		delete(byCode, b.Code)
	}

	for _, s := range stored {
		if _, ok := byCode[s.Bank]; ok {
			list = append(list, s)
		}
	}

	return list, nil
}
