// Command api serves the match CSV as JSON.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/internal/adapters/http/api"
	"github.com/okian/partidos/internal/adapters/http/server"
	"github.com/okian/partidos/internal/adapters/http/swagger"
	"github.com/okian/partidos/internal/config"
	"github.com/okian/partidos/pkg/logger"
	"github.com/okian/partidos/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Named("api")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	metrics.RegisterRuntimeCollectors()

	srv := server.New(cfg.Addr, newHandler(ctx, cfg, log))
	if err := server.Run(ctx, srv, log); err != nil {
		log.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

// newHandler registers the API and docs routes.
func newHandler(ctx context.Context, cfg *config.Config, log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	loader := csvstore.NewFileLoader(cfg.CSVPath, csvstore.WithLogger(log))
	api.NewServer(loader, api.WithLogger(log)).Register(ctx, mux)
	return mux
}
