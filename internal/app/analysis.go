// Package app runs the remote match analysis: fetch, regression, standings
// and matchup graphs, with their artifacts and a printed report.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/partidos/internal/adapters/render"
	"github.com/okian/partidos/internal/adapters/repository"
	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/internal/domain/matchgraph"
	"github.com/okian/partidos/internal/domain/regression"
	"github.com/okian/partidos/internal/domain/standings"
	"github.com/okian/partidos/pkg/logger"
	"github.com/okian/partidos/pkg/metrics"
)

// MatchSource fetches matches for a competition season.
type MatchSource interface {
	Matches(ctx context.Context, competition string, season, limit int) ([]match.Match, error)
}

// Artifact file names written to the output directory.
const (
	RegressionFile       = "regression.svg"
	LeagueFile           = "league.dot"
	TopFile              = "top.dot"
	StarFile             = "star.dot"
	StarHierarchicalFile = "star-hierarchical.dot"
)

// Analysis wires the run together.
type Analysis struct {
	source MatchSource
	store  repository.Store

	competition string
	season      int
	limit       int

	seed     int64
	shotsMin int
	shotsMax int

	topN    int
	focal   string
	outDir  string
	out     io.Writer
	refresh bool

	logger logger.Logger
}

// Option applies a configuration option to the Analysis.
type Option func(*Analysis)

// WithStore enables the snapshot cache.
func WithStore(s repository.Store) Option {
	return func(a *Analysis) { a.store = s }
}

// WithCompetition selects the competition season and the match limit.
func WithCompetition(code string, season, limit int) Option {
	return func(a *Analysis) {
		if code != "" {
			a.competition = code
		}
		if season > 0 {
			a.season = season
		}
		if limit > 0 {
			a.limit = limit
		}
	}
}

// WithShots sets the seed and the [lo, hi) range of synthetic shot counts.
func WithShots(seed int64, lo, hi int) Option {
	return func(a *Analysis) {
		a.seed = seed
		if hi > lo {
			a.shotsMin, a.shotsMax = lo, hi
		}
	}
}

// WithTopTeams sets the size of the restricted graph.
func WithTopTeams(n int) Option {
	return func(a *Analysis) {
		if n > 0 {
			a.topN = n
		}
	}
}

// WithFocalTeam sets the centre of the star graph.
func WithFocalTeam(team string) Option {
	return func(a *Analysis) {
		if team != "" {
			a.focal = team
		}
	}
}

// WithOutputDir sets where artifacts are written.
func WithOutputDir(dir string) Option {
	return func(a *Analysis) {
		if dir != "" {
			a.outDir = dir
		}
	}
}

// WithReport sets the writer the report is printed to. A nil writer
// disables the report.
func WithReport(w io.Writer) Option {
	return func(a *Analysis) { a.out = w }
}

// WithRefresh ignores cached snapshots.
func WithRefresh(refresh bool) Option {
	return func(a *Analysis) { a.refresh = refresh }
}

// WithLogger sets a custom logger for the analysis.
func WithLogger(l logger.Logger) Option {
	return func(a *Analysis) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Analysis over source.
func New(source MatchSource, opts ...Option) *Analysis {
	a := &Analysis{
		source:      source,
		competition: "PL",
		season:      2023,
		limit:       100,
		seed:        42,
		shotsMin:    5,
		shotsMax:    25,
		topN:        7,
		focal:       "Liverpool FC",
		outDir:      "out",
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Report is the outcome of one run.
type Report struct {
	Competition  string                   `json:"competition"`
	Season       int                      `json:"season"`
	FromCache    bool                     `json:"from_cache"`
	Matches      []match.Match            `json:"-"`
	Observations []regression.Observation `json:"-"`
	Fit          regression.Result        `json:"fit"`
	Top          []standings.Entry        `json:"top"`
	League       *matchgraph.Graph        `json:"league"`
	TopGraph     *matchgraph.Graph        `json:"top_graph"`
	Star         *matchgraph.Graph        `json:"star"`
	StarInDegree []matchgraph.Degree      `json:"star_in_degree"`
	Artifacts    []string                 `json:"artifacts"`
}

// Run fetches the matches, fits the model, builds the three graphs, writes
// their artifacts and prints the report.
func (a *Analysis) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	matches, cached, err := a.matches(ctx)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s %d", ErrNoData, a.competition, a.season)
	}

	rep := &Report{
		Competition: a.competition,
		Season:      a.season,
		FromCache:   cached,
		Matches:     matches,
	}

	rep.Observations = regression.SimulateShots(matches, a.seed, a.shotsMin, a.shotsMax)
	if rep.Fit, err = regression.FitOLS(rep.Observations); err != nil {
		return nil, fmt.Errorf("fit regression: %w", err)
	}
	metrics.RecordRegressionFit()

	rep.Top = standings.NewLedger(matches).Top(a.topN)
	rep.League = matchgraph.League(matches)
	rep.TopGraph = matchgraph.Among("top", matches, standings.Teams(rep.Top))
	rep.Star = matchgraph.Star(matches, a.focal)
	rep.StarInDegree = rep.Star.InDegreeTable()
	if !rep.Star.HasNode(a.focal) {
		a.log().Warn(ctx, "focal team has no scored matches", logger.String("team", a.focal))
	}

	if rep.Artifacts, err = a.writeArtifacts(rep); err != nil {
		return nil, err
	}

	if a.out != nil {
		if err := WriteReport(a.out, rep, a.focal); err != nil {
			return nil, fmt.Errorf("print report: %w", err)
		}
	}

	a.log().Info(ctx, "analysis complete",
		logger.Int("matches", len(matches)),
		logger.Int("observations", len(rep.Observations)),
		logger.Int("league_edges", rep.League.EdgeCount()),
		logger.Bool("from_cache", cached),
		logger.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

// matches reads the snapshot when allowed, otherwise fetches and saves one.
func (a *Analysis) matches(ctx context.Context) ([]match.Match, bool, error) {
	key := repository.Key{Competition: a.competition, Season: a.season}

	if a.store != nil && !a.refresh {
		snap, err := a.store.Load(ctx, key)
		switch {
		case err == nil:
			metrics.RecordCacheHit()
			a.log().Debug(ctx, "using cached snapshot",
				logger.String("key", key.String()),
				logger.String("fetched_at", snap.FetchedAt.Format(time.RFC3339)),
			)
			ms := snap.Matches
			if len(ms) > a.limit {
				ms = ms[:a.limit]
			}
			return ms, true, nil
		case !errors.Is(err, repository.ErrNotFound):
			return nil, false, fmt.Errorf("load snapshot: %w", err)
		}
	}

	if a.source == nil {
		return nil, false, ErrNoSource
	}
	ms, err := a.source.Matches(ctx, a.competition, a.season, a.limit)
	if err != nil {
		return nil, false, fmt.Errorf("fetch matches: %w", err)
	}

	if a.store != nil {
		if err := a.store.Save(ctx, key, ms); err != nil {
			return nil, false, fmt.Errorf("save snapshot: %w", err)
		}
	}
	return ms, false, nil
}

func (a *Analysis) writeArtifacts(rep *Report) ([]string, error) {
	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	league := render.DefaultStyle("Grafo completo de partidos")
	league.NodeColor = "skyblue"

	top := render.DefaultStyle(fmt.Sprintf("Grafo entre los %d mejores equipos", a.topN))
	top.NodeColor = "gold"

	star := render.DefaultStyle(fmt.Sprintf("Conexiones directas de %s con sus rivales", a.focal))
	star.Layout = render.ForceDirected
	star.NodeColor = "lightgreen"
	star.Highlight = a.focal

	starTree := render.DefaultStyle(fmt.Sprintf("Partidos del %s", a.focal))
	starTree.NodeColor = "red"

	jobs := []struct {
		name string
		draw func(io.Writer) error
	}{
		{RegressionFile, func(w io.Writer) error { return render.RegressionChart(w, rep.Observations, rep.Fit) }},
		{LeagueFile, func(w io.Writer) error { return render.WriteDOT(w, rep.League, league) }},
		{TopFile, func(w io.Writer) error { return render.WriteDOT(w, rep.TopGraph, top) }},
		{StarFile, func(w io.Writer) error { return render.WriteDOT(w, rep.Star, star) }},
		{StarHierarchicalFile, func(w io.Writer) error { return render.WriteDOT(w, rep.Star, starTree) }},
	}

	paths := make([]string, 0, len(jobs))
	for _, j := range jobs {
		path := filepath.Join(a.outDir, j.name)
		if err := writeFile(path, j.draw); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, draw func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := draw(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (a *Analysis) log() logger.Logger {
	if a.logger != nil {
		return a.logger
	}
	return nopLogger{}
}
