// Package repository persists fetched match snapshots.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/partidos/internal/domain/match"
)

// Key identifies one fetched competition season.
type Key struct {
	Competition string
	Season      int
}

func (k Key) String() string { return fmt.Sprintf("%s/%d", k.Competition, k.Season) }

func (k Key) validate() error {
	if strings.TrimSpace(k.Competition) == "" {
		return fmt.Errorf("%w: empty competition", ErrInvalidKey)
	}
	return nil
}

// Snapshot is a stored batch of matches.
type Snapshot struct {
	Key       Key
	FetchedAt time.Time
	Matches   []match.Match
}

// Store provides read/write access to match snapshots.
type Store interface {
	// Save replaces the snapshot for key.
	Save(ctx context.Context, key Key, matches []match.Match) error

	// Load returns the snapshot for key in the order it was saved.
	// Returns ErrNotFound if nothing was saved for key.
	Load(ctx context.Context, key Key) (Snapshot, error)

	// Close releases the underlying resources.
	Close() error
}
