// Package regression fits goals against synthetic shot counts with ordinary
// least squares and reports the classical coefficient summary.
package regression

import (
	"math/rand"

	"github.com/okian/partidos/internal/domain/match"
)

// Observation is one row of the model: combined shots and combined goals.
type Observation struct {
	HomeShots int     `json:"home_shots"`
	AwayShots int     `json:"away_shots"`
	Shots     float64 `json:"shots"`
	Goals     float64 `json:"goals"`
}

// SimulateShots attaches two uniform shot counts in [lo, hi) to every match.
// All home draws are taken first, then all away draws, from one source
// seeded with seed, so the output depends only on the seed and the row
// count. Matches with a missing score are dropped after drawing.
func SimulateShots(matches []match.Match, seed int64, lo, hi int) []Observation {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible synthetic data
	span := hi - lo
	if span < 1 {
		span = 1
	}

	home := make([]int, len(matches))
	for i := range matches {
		home[i] = lo + rng.Intn(span)
	}
	away := make([]int, len(matches))
	for i := range matches {
		away[i] = lo + rng.Intn(span)
	}

	out := make([]Observation, 0, len(matches))
	for i, m := range matches {
		if !m.Scored() {
			continue
		}
		out = append(out, Observation{
			HomeShots: home[i],
			AwayShots: away[i],
			Shots:     float64(home[i] + away[i]),
			Goals:     float64(m.TotalGoals()),
		})
	}
	return out
}
