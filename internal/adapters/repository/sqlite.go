package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/partidos/internal/domain/match"
	"github.com/okian/partidos/pkg/logger"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	competition TEXT NOT NULL,
	season      INTEGER NOT NULL,
	fetched_at  INTEGER NOT NULL,
	PRIMARY KEY (competition, season)
);
CREATE TABLE IF NOT EXISTS matches (
	competition TEXT NOT NULL,
	season      INTEGER NOT NULL,
	seq         INTEGER NOT NULL,
	played_at   INTEGER,
	home_team   TEXT NOT NULL,
	away_team   TEXT NOT NULL,
	home_goals  INTEGER,
	away_goals  INTEGER,
	PRIMARY KEY (competition, season, seq)
);
CREATE INDEX IF NOT EXISTS idx_matches_key ON matches (competition, season);
`

// SQLiteStore keeps snapshots in a SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection keeps :memory: databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save replaces the snapshot for key in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, key Key, matches []match.Match) (err error) {
	if err := key.validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM matches WHERE competition = ? AND season = ?`, key.Competition, key.Season); err != nil {
		return fmt.Errorf("clear matches %s: %w", key, err)
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (competition, season, fetched_at) VALUES (?, ?, ?)`,
		key.Competition, key.Season, s.now().UTC().UnixNano()); err != nil {
		return fmt.Errorf("upsert snapshot %s: %w", key, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO matches
		(competition, season, seq, played_at, home_team, away_team, home_goals, away_goals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, m := range matches {
		var playedAt sql.NullInt64
		if !m.Date.IsZero() {
			playedAt = sql.NullInt64{Int64: m.Date.UTC().Unix(), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, key.Competition, key.Season, i, playedAt,
			m.HomeTeam, m.AwayTeam, nullInt(m.HomeGoals), nullInt(m.AwayGoals)); err != nil {
			return fmt.Errorf("insert match %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	if s.log != nil {
		s.log.Debug(ctx, "snapshot saved", logger.String("key", key.String()), logger.Int("matches", len(matches)))
	}
	return nil
}

// Load returns the snapshot for key.
func (s *SQLiteStore) Load(ctx context.Context, key Key) (Snapshot, error) {
	if err := key.validate(); err != nil {
		return Snapshot{}, err
	}

	var fetched int64
	err := s.db.QueryRowContext(ctx,
		`SELECT fetched_at FROM snapshots WHERE competition = ? AND season = ?`,
		key.Competition, key.Season).Scan(&fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", key, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT played_at, home_team, away_team, home_goals, away_goals
		FROM matches WHERE competition = ? AND season = ? ORDER BY seq`, key.Competition, key.Season)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query matches %s: %w", key, err)
	}
	defer func() { _ = rows.Close() }()

	snap := Snapshot{Key: key, FetchedAt: time.Unix(0, fetched).UTC()}
	for rows.Next() {
		var (
			playedAt   sql.NullInt64
			home, away sql.NullInt64
			m          match.Match
		)
		if err := rows.Scan(&playedAt, &m.HomeTeam, &m.AwayTeam, &home, &away); err != nil {
			return Snapshot{}, fmt.Errorf("scan match: %w", err)
		}
		if playedAt.Valid {
			m.Date = time.Unix(playedAt.Int64, 0).UTC()
		}
		m.HomeGoals = intPtr(home)
		m.AwayGoals = intPtr(away)
		snap.Matches = append(snap.Matches, m)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("iterate matches: %w", err)
	}
	return snap, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
