// Package match contains the match record shared by the CSV, dashboard and
// graph pipelines, and the outcome rules derived from it.
package match

import "time"

// Match is one fixture. Goals are nil when the score is missing
// (unplayed or not reported).
type Match struct {
	Date      time.Time
	HomeTeam  string
	AwayTeam  string
	HomeGoals *int
	AwayGoals *int
}

// Scored reports whether both goal counts are present.
func (m Match) Scored() bool {
	return m.HomeGoals != nil && m.AwayGoals != nil
}

// TotalGoals returns home plus away goals; missing sides count as zero.
func (m Match) TotalGoals() int {
	return intOrZero(m.HomeGoals) + intOrZero(m.AwayGoals)
}

// Involves reports whether team played in the match.
func (m Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// Outcome derives the result of the match.
func (m Match) Outcome() Outcome {
	if !m.Scored() {
		return Unknown
	}
	switch h, a := *m.HomeGoals, *m.AwayGoals; {
	case h > a:
		return HomeWin
	case h < a:
		return AwayWin
	default:
		return Draw
	}
}

// Goals returns a pointer to n, for building matches in code.
func Goals(n int) *int { return &n }

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
