// Command graphs fetches a competition season, fits goals on simulated
// shots and writes the matchup graphs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/partidos/internal/adapters/footballdata"
	"github.com/okian/partidos/internal/adapters/repository"
	"github.com/okian/partidos/internal/app"
	"github.com/okian/partidos/internal/config"
	"github.com/okian/partidos/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cfg, args); err != nil {
		return err
	}

	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("graphs")
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	client := footballdata.New(
		footballdata.WithBaseURL(cfg.FootballDataURL),
		footballdata.WithToken(cfg.FootballDataToken),
		footballdata.WithTimeout(cfg.RequestTimeout()),
		footballdata.WithLogger(log),
	)

	opts := []app.Option{
		app.WithCompetition(cfg.Competition, cfg.Season, cfg.MatchLimit),
		app.WithShots(cfg.ShotsSeed, cfg.ShotsMin, cfg.ShotsMax),
		app.WithTopTeams(cfg.TopTeams),
		app.WithFocalTeam(cfg.FocalTeam),
		app.WithOutputDir(cfg.OutputDir),
		app.WithRefresh(cfg.Refresh),
		app.WithReport(out),
		app.WithLogger(log),
	}
	if cfg.CachePath != "" {
		store, err := repository.Open(ctx, cfg.CachePath, repository.WithLogger(log))
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer func() { _ = store.Close() }()
		opts = append(opts, app.WithStore(store))
	}

	if _, err := app.New(client, opts...).Run(ctx); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	return nil
}

// applyFlags overrides cfg with command-line flags.
func applyFlags(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("graphs", flag.ContinueOnError)
	fs.StringVar(&cfg.Competition, "competition", cfg.Competition, "Competition code")
	fs.IntVar(&cfg.Season, "season", cfg.Season, "Season start year")
	fs.IntVar(&cfg.MatchLimit, "limit", cfg.MatchLimit, "Maximum number of matches")
	fs.IntVar(&cfg.TopTeams, "top", cfg.TopTeams, "Teams in the restricted graph")
	fs.StringVar(&cfg.FocalTeam, "team", cfg.FocalTeam, "Centre of the star graph")
	fs.Int64Var(&cfg.ShotsSeed, "seed", cfg.ShotsSeed, "Seed for simulated shots")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory for charts and DOT files")
	fs.StringVar(&cfg.CachePath, "cache", cfg.CachePath, "SQLite snapshot file (empty disables caching)")
	fs.BoolVar(&cfg.Refresh, "refresh", cfg.Refresh, "Fetch even when a snapshot exists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return cfg.Validate()
}
