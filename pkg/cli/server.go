package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080

	portFlag = "port"
)

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start local HTTP server with the data API",
		Action:  cmdStartServer,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  portFlag,
				Usage: "Port on which the server will listen",
				Value: serverPortDefault,
			},
		},
	}
}

func cmdStartServer(ctx context.Context, cmd *cli.Command) error {
	cfg, err := getConfig(ctx)
	if err != nil {
		return err
	}

	db, err := cfg.getDB()
	if err != nil {
		return err
	}

	address := fmt.Sprintf("127.0.0.1:%d", cmd.Int(portFlag))

	s := &http.Server{
		Addr:           address,
		Handler:        makeRouter(db, cfg.Config),
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", "http://"+address)

	select {
	case <-done:
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(sctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *data.DB, conf *config.Config) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /data/aggregates", aggregatesAPIHandler(db, conf))
	mux.HandleFunc("GET /data/reviews", reviewsAPIHandler(db, conf))
	mux.HandleFunc("GET /data/state", stateAPIHandler(db))
	mux.HandleFunc("GET /data/banks", banksAPIHandler(db, conf))

	return mux
}
