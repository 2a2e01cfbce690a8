// Package config defines process configuration shared by the partidos
// binaries and the hooks that load it.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration. Each binary reads the subset it needs.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr is the CSV API listen address.
	Addr string `koanf:"addr"`

	// DashboardAddr is the dashboard listen address.
	DashboardAddr string `koanf:"dashboard_addr"`

	// CSVPath points at the match file served by the API and read by the dashboard.
	CSVPath string `koanf:"csv_path"`

	// Column names in the CSV header.
	ColumnDate      string `koanf:"column_date"`
	ColumnHomeTeam  string `koanf:"column_home_team"`
	ColumnAwayTeam  string `koanf:"column_away_team"`
	ColumnHomeGoals string `koanf:"column_home_goals"`
	ColumnAwayGoals string `koanf:"column_away_goals"`

	// FootballDataURL is the base URL of the remote match feed, with trailing slash.
	FootballDataURL string `koanf:"football_data_url"`

	// FootballDataToken is sent in the X-Auth-Token header.
	FootballDataToken string `koanf:"football_data_token"`

	// Competition, Season and MatchLimit select the remote matches.
	Competition string `koanf:"competition"`
	Season      int    `koanf:"season"`
	MatchLimit  int    `koanf:"match_limit"`

	// RequestTimeoutMS bounds a single remote call.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// ShotsSeed, ShotsMin and ShotsMax drive the synthetic shot counts.
	// Draws are uniform in [ShotsMin, ShotsMax).
	ShotsSeed int64 `koanf:"shots_seed"`
	ShotsMin  int   `koanf:"shots_min"`
	ShotsMax  int   `koanf:"shots_max"`

	// TopTeams is the size of the restricted graph.
	TopTeams int `koanf:"top_teams"`

	// FocalTeam is the center of the star graph.
	FocalTeam string `koanf:"focal_team"`

	// OutputDir receives charts and DOT files from the graphs run.
	OutputDir string `koanf:"output_dir"`

	// CachePath enables the SQLite match snapshot when non-empty.
	CachePath string `koanf:"cache_path"`

	// Refresh forces a remote fetch even when a snapshot exists.
	Refresh bool `koanf:"refresh"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             "0.0.0.0:8000",
		DashboardAddr:    "0.0.0.0:8501",
		CSVPath:          "partidos.csv",
		ColumnDate:       "fecha",
		ColumnHomeTeam:   "equipo_local",
		ColumnAwayTeam:   "equipo_visitante",
		ColumnHomeGoals:  "goles_local",
		ColumnAwayGoals:  "goles_visitante",
		FootballDataURL:  "https://api.football-data.org/v4/",
		Competition:      "PL",
		Season:           2023,
		MatchLimit:       100,
		RequestTimeoutMS: 10_000,
		ShotsSeed:        42,
		ShotsMin:         5,
		ShotsMax:         25,
		TopTeams:         7,
		FocalTeam:        "Liverpool FC",
		OutputDir:        "out",
	}
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
