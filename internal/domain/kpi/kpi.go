// Package kpi computes the dashboard aggregates over a set of matches.
package kpi

import (
	"errors"
	"math"
	"sort"

	"github.com/okian/partidos/internal/domain/match"
)

// ErrNoMatches is returned when an average is requested over zero rows.
var ErrNoMatches = errors.New("no matches")

// Summary holds the three scalar KPIs.
type Summary struct {
	TotalMatches int     `json:"total_matches"`
	TotalGoals   int     `json:"total_goals"`
	AverageGoals float64 `json:"average_goals"`
}

// Summarize counts every row, sums the goals that are present and divides
// by the row count, rounded to two decimals.
func Summarize(matches []match.Match) (Summary, error) {
	if len(matches) == 0 {
		return Summary{}, ErrNoMatches
	}
	s := Summary{TotalMatches: len(matches)}
	for _, m := range matches {
		s.TotalGoals += m.TotalGoals()
	}
	s.AverageGoals = Round2(float64(s.TotalGoals) / float64(s.TotalMatches))
	return s, nil
}

// Round2 rounds x to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// TeamGoals is one bar of the goals-per-team chart.
type TeamGoals struct {
	Team  string `json:"team"`
	Goals int    `json:"goals"`
}

// GoalsByTeam adds the goals each team scored at home and away. Teams that
// only appear in rows with missing scores are listed with zero. The result
// is sorted by goals descending, then team name.
func GoalsByTeam(matches []match.Match) []TeamGoals {
	totals := make(map[string]int)
	for _, m := range matches {
		totals[m.HomeTeam] += intOrZero(m.HomeGoals)
		totals[m.AwayTeam] += intOrZero(m.AwayGoals)
	}

	out := make([]TeamGoals, 0, len(totals))
	for team, goals := range totals {
		out = append(out, TeamGoals{Team: team, Goals: goals})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Goals != out[j].Goals {
			return out[i].Goals > out[j].Goals
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// OutcomeShare is one slice of the outcome distribution.
type OutcomeShare struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// OutcomeCounts returns the frequency of each outcome label, most frequent
// first. Outcomes that never occur and rows without a score are left out.
func OutcomeCounts(matches []match.Match) []OutcomeShare {
	counts := make(map[match.Outcome]int)
	for _, m := range matches {
		if o := m.Outcome(); o != match.Unknown {
			counts[o]++
		}
	}

	out := make([]OutcomeShare, 0, len(match.Outcomes))
	for _, o := range match.Outcomes {
		if counts[o] > 0 {
			out = append(out, OutcomeShare{Label: o.Label(), Count: counts[o]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
