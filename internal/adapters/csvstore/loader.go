package csvstore

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/pkg/logger"
	"github.com/okian/partidos/pkg/metrics"
)

// FileLoader reads a CSV file from a fixed path on every call.
type FileLoader struct {
	path string
	log  logger.Logger
}

// Option configures a FileLoader.
type Option func(*FileLoader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(f *FileLoader) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFileLoader returns a loader for path.
func NewFileLoader(path string, opts ...Option) *FileLoader {
	f := &FileLoader{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the file the loader reads.
func (f *FileLoader) Path() string { return f.path }

// Load reads and parses the whole file.
func (f *FileLoader) Load(ctx context.Context) (*Table, error) {
	start := time.Now()

	fh, err := os.Open(f.path)
	if err != nil {
		metrics.RecordCSVLoadError()
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer func() { _ = fh.Close() }()

	t, err := Read(fh)
	if err != nil {
		metrics.RecordCSVLoadError()
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}

	elapsed := time.Since(start)
	metrics.RecordCSVLoad(t.Len(), float64(elapsed.Microseconds())/1000)
	if f.log != nil {
		f.log.Debug(ctx, "csv loaded",
			logger.String("path", f.path),
			logger.Int("rows", t.Len()),
			logger.Duration("elapsed", elapsed),
		)
	}
	return t, nil
}

// LoadMatches reads the file and converts it with cols. The matches line up
// with the table rows.
func (f *FileLoader) LoadMatches(ctx context.Context, cols Columns) (*Table, []match.Match, error) {
	t, err := f.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	ms, err := t.Matches(cols)
	if err != nil {
		return nil, nil, fmt.Errorf("convert %s: %w", f.path, err)
	}
	return t, ms, nil
}
