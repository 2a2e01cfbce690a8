// Command dashboard serves the match KPIs and charts.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/internal/adapters/http/dashboard"
	"github.com/okian/partidos/internal/adapters/http/server"
	"github.com/okian/partidos/internal/config"
	"github.com/okian/partidos/pkg/logger"
	"github.com/okian/partidos/pkg/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	log := logger.Named("dashboard")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.RegisterRuntimeCollectors()

	srv := server.New(cfg.DashboardAddr, newHandler(cfg, log))
	if err := server.Run(ctx, srv, log); err != nil {
		log.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

func columns(cfg *config.Config) csvstore.Columns {
	return csvstore.Columns{
		Date:      cfg.ColumnDate,
		HomeTeam:  cfg.ColumnHomeTeam,
		AwayTeam:  cfg.ColumnAwayTeam,
		HomeGoals: cfg.ColumnHomeGoals,
		AwayGoals: cfg.ColumnAwayGoals,
	}
}

func newHandler(cfg *config.Config, log logger.Logger) http.Handler {
	loader := csvstore.NewFileLoader(cfg.CSVPath, csvstore.WithLogger(log))
	return dashboard.New(loader,
		dashboard.WithColumns(columns(cfg)),
		dashboard.WithLogger(log),
	).Router()
}
