package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/logging"
)

const (
	appName = "revpulse"

	formatJSON = "json"
	formatYAML = "yaml"
)

type appConfigKey struct{}

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	stdout io.Writer = os.Stdout
	stdin  io.Reader = os.Stdin
)

// Flag names shared by more than one command.
const (
	debugFlag      = "debug"
	configDirFlag  = "config"
	dbFilePathFlag = "db"
	driverFlag     = "driver"
	dsnFlag        = "dsn"
	formatFlag     = "format"
	fileFlag       = "file"
	scorerFlag     = "scorer"
	bankFlag       = "bank"
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	HomeDir string
	Config  *config.Config
	Driver  string
	DSN     string
	Debug   bool

	db *data.DB
}

// getDB initializes and opens the database on first use.
func (a *appConfig) getDB() (*data.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	dsn, err := a.dataSource()
	if err != nil {
		return nil, err
	}

	if err := data.Init(a.Driver, dsn); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(a.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	return db, nil
}

func (a *appConfig) dataSource() (string, error) {
	if a.DSN != "" {
		return a.DSN, nil
	}

	switch a.Driver {
	case data.DriverSQLite:
		return filepath.Join(a.HomeDir, data.DataFileName), nil
	case data.DriverPostgres:
		dsn, err := getDSN(a.HomeDir)
		if err != nil {
			return "", fmt.Errorf("postgres connection string not set, use --dsn or auth: %w", err)
		}
		return dsn, nil
	}
	return "", fmt.Errorf("invalid driver: %s", a.Driver)
}

func (a *appConfig) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func getConfig(ctx context.Context) (*appConfig, error) {
	cfg, ok := ctx.Value(appConfigKey{}).(*appConfig)
	if !ok || cfg == nil {
		return nil, errors.New("app config not initialized")
	}
	return cfg, nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "CLI for sentiment insight into bank app reviews",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  configDirFlag,
				Usage: "Path to the config directory (optional, defaults to $HOME/.revpulse)",
			},
			&cli.StringFlag{
				Name:  dbFilePathFlag,
				Usage: "Path to the Sqlite database file (optional, defaults to data.db in config directory)",
			},
			&cli.StringFlag{
				Name:  driverFlag,
				Usage: fmt.Sprintf("Database driver %v", data.Drivers),
				Value: data.DriverSQLite,
			},
			&cli.StringFlag{
				Name:  dsnFlag,
				Usage: "Postgres connection string (optional, defaults to the one saved with auth)",
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
		},
		Commands: []*cli.Command{
			authCommand(),
			importCommand(),
			scoreCommand(),
			aggregateCommand(),
			runCommand(),
			queryCommand(),
			banksCommand(),
			serverCommand(),
			resetCommand(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			debug := cmd.Bool(debugFlag)
			initLogging(debug)

			switch f := cmd.String(formatFlag); f {
			case formatYAML, "yml":
				outputFormat = formatYAML
			case formatJSON, "":
				outputFormat = formatJSON
			default:
				return ctx, fmt.Errorf("invalid format: %s (permitted options: json, yaml)", f)
			}

			driver := cmd.String(driverFlag)
			if !data.Contains(data.Drivers, driver) {
				return ctx, fmt.Errorf("invalid driver: %s (permitted options: %v)", driver, data.Drivers)
			}

			dir := cmd.String(configDirFlag)
			if dir == "" {
				d, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("getting home dir: %w", err)
				}
				dir = d
			}

			conf, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("reading config: %w", err)
			}

			dsn := cmd.String(dsnFlag)
			if driver == data.DriverSQLite {
				dsn = cmd.String(dbFilePathFlag)
			}

			app := &appConfig{
				HomeDir: dir,
				Config:  conf,
				Driver:  driver,
				DSN:     dsn,
				Debug:   debug,
			}
			slog.Debug("config loaded", "dir", dir, "driver", driver, "banks", len(conf.Banks))

			return context.WithValue(ctx, appConfigKey{}, app), nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if cfg, err := getConfig(ctx); err == nil {
				cfg.close()
			}
			return nil
		},
	}
}

func initLogging(debug bool) {
	level := "info"
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level)
}

func encode(v any) error {
	if outputFormat == formatYAML {
		e := yaml.NewEncoder(stdout)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
