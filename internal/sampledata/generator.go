// Package sampledata generates a reproducible league season for local runs.
package sampledata

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/okian/partidos/internal/domain/match"
)

// Scoring model constants.
const (
	homeGoalMean = 1.55
	awayGoalMean = 1.15
	strengthMin  = 0.6
	strengthSpan = 0.8
	daysPerRound = 7
)

// ErrTooFewTeams is returned when a season cannot be scheduled.
var ErrTooFewTeams = errors.New("at least 2 teams are required")

// DefaultTeams is the team list used by cmd/sample.
var DefaultTeams = []string{
	"Real Madrid", "Barcelona", "Atlético de Madrid", "Sevilla",
	"Real Sociedad", "Villarreal", "Real Betis", "Athletic Club",
	"Valencia", "Girona",
}

// DefaultStart is the first matchday of a generated season.
var DefaultStart = time.Date(2024, 8, 17, 0, 0, 0, 0, time.UTC)

// Generate plays a double round-robin between teams, one round per week
// from start. Goals are Poisson draws scaled by a per-team strength; the
// last unplayed fixtures are left without a score. The same seed always
// yields the same season.
func Generate(teams []string, seed int64, unplayed int, start time.Time) ([]match.Match, error) {
	if len(teams) < 2 {
		return nil, ErrTooFewTeams
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible sample data

	strength := make(map[string]float64, len(teams))
	for _, t := range teams {
		strength[t] = strengthMin + rng.Float64()*strengthSpan
	}

	rounds := Schedule(teams)
	out := make([]match.Match, 0, len(rounds)*len(teams)/2)
	for r, round := range rounds {
		day := start.AddDate(0, 0, r*daysPerRound)
		for _, p := range round {
			hs, as := strength[p[0]], strength[p[1]]
			out = append(out, match.Match{
				Date:      day,
				HomeTeam:  p[0],
				AwayTeam:  p[1],
				HomeGoals: match.Goals(poisson(rng, homeGoalMean*hs/as)),
				AwayGoals: match.Goals(poisson(rng, awayGoalMean*as/hs)),
			})
		}
	}

	if unplayed > len(out) {
		unplayed = len(out)
	}
	for i := len(out) - unplayed; i < len(out); i++ {
		out[i].HomeGoals, out[i].AwayGoals = nil, nil
	}
	return out, nil
}

// Schedule returns a double round-robin as rounds of [home, away] pairs. The
// second half mirrors the first with venues swapped. With an odd team count
// one team rests each round.
func Schedule(teams []string) [][][2]string {
	ring := append([]string{}, teams...)
	if len(ring)%2 != 0 {
		ring = append(ring, "")
	}
	n := len(ring)

	first := make([][][2]string, 0, n-1)
	for r := 0; r < n-1; r++ {
		round := make([][2]string, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := ring[j], ring[n-1-j]
			if home == "" || away == "" {
				continue
			}
			if r%2 == 1 && j == 0 {
				home, away = away, home
			}
			round = append(round, [2]string{home, away})
		}
		first = append(first, round)

		// keep ring[0] fixed and rotate the rest
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	all := first
	for _, round := range first {
		swapped := make([][2]string, len(round))
		for i, p := range round {
			swapped[i] = [2]string{p[1], p[0]}
		}
		all = append(all, swapped)
	}
	return all
}

// poisson samples a Poisson variate with mean lambda (Knuth).
func poisson(rng *rand.Rand, lambda float64) int {
	limit := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > limit {
		k++
		p *= rng.Float64()
	}
	return k - 1
}
