// Command sample writes a generated season as partidos.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okian/partidos/internal/adapters/csvstore"
	"github.com/okian/partidos/internal/sampledata"
	"github.com/okian/partidos/pkg/logger"
)

const outputFilePermission = 0o644

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

type options struct {
	out      string
	teams    []string
	seed     int64
	unplayed int
	start    time.Time
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	var (
		out      = fs.String("out", "partidos.csv", "Output CSV file (- for stdout)")
		teams    = fs.String("teams", strings.Join(sampledata.DefaultTeams, ","), "Comma-separated team names")
		seed     = fs.Int64("seed", 42, "Random seed")
		unplayed = fs.Int("unplayed", 5, "Fixtures at the end of the season left without a score")
		start    = fs.String("start", sampledata.DefaultStart.Format("2006-01-02"), "Date of the first round")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o := options{out: *out, seed: *seed, unplayed: *unplayed}
	for _, t := range strings.Split(*teams, ",") {
		if t = strings.TrimSpace(t); t != "" {
			o.teams = append(o.teams, t)
		}
	}
	d, err := csvstore.ParseDate(*start)
	if err != nil {
		return options{}, fmt.Errorf("start: %w", err)
	}
	o.start = d
	return o, nil
}

func run(ctx context.Context, args []string) (err error) {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	ms, err := sampledata.Generate(o.teams, o.seed, o.unplayed, o.start)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if o.out != "-" {
		f, err := os.OpenFile(o.out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermission)
		if err != nil {
			return fmt.Errorf("create %s: %w", o.out, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := csvstore.WriteMatches(w, ms, csvstore.DefaultColumns); err != nil {
		return err
	}
	logger.Get().Info(ctx, "sample season written",
		logger.String("out", o.out),
		logger.Int("matches", len(ms)),
		logger.Int("unplayed", o.unplayed),
	)
	return nil
}
