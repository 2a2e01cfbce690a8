// Package standings computes the points ledger under the 3/1/0 rule.
package standings

import (
	"sort"

	"github.com/okian/partidos/internal/domain/match"
)

// Entry is one team's row in the ledger.
type Entry struct {
	Rank   int    `json:"rank"`
	Team   string `json:"team"`
	Points int    `json:"points"`
	Played int    `json:"played"`
	Wins   int    `json:"wins"`
	Draws  int    `json:"draws"`
	Losses int    `json:"losses"`
}

// Ledger accumulates points per team. Teams are kept in the order they
// first appear in a scored match; that order breaks ties in Table.
type Ledger struct {
	entries map[string]*Entry
	order   []string
}

// NewLedger builds a ledger from scratch. Matches with a missing score
// contribute nothing.
func NewLedger(matches []match.Match) *Ledger {
	l := &Ledger{entries: make(map[string]*Entry)}
	for _, m := range matches {
		l.add(m)
	}
	return l
}

func (l *Ledger) add(m match.Match) {
	outcome := m.Outcome()
	if outcome == match.Unknown {
		return
	}
	home, away := l.entry(m.HomeTeam), l.entry(m.AwayTeam)
	hp, ap := outcome.Points()
	home.Points += hp
	away.Points += ap
	home.Played++
	away.Played++

	switch outcome {
	case match.HomeWin:
		home.Wins++
		away.Losses++
	case match.AwayWin:
		away.Wins++
		home.Losses++
	default:
		home.Draws++
		away.Draws++
	}
}

func (l *Ledger) entry(team string) *Entry {
	e, ok := l.entries[team]
	if !ok {
		e = &Entry{Team: team}
		l.entries[team] = e
		l.order = append(l.order, team)
	}
	return e
}

// Points returns the accumulated points for team (0 if unknown).
func (l *Ledger) Points(team string) int {
	if e, ok := l.entries[team]; ok {
		return e.Points
	}
	return 0
}

// Len returns the number of teams in the ledger.
func (l *Ledger) Len() int { return len(l.order) }

// Table returns every team sorted by points descending. Teams with equal
// points keep their first-appearance order. Ranks are 1-based positions.
func (l *Ledger) Table() []Entry {
	out := make([]Entry, 0, len(l.order))
	for _, team := range l.order {
		out = append(out, *l.entries[team])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Top returns the first n rows of Table.
func (l *Ledger) Top(n int) []Entry {
	table := l.Table()
	if n < len(table) {
		table = table[:n]
	}
	return table
}

// Teams returns the team names of entries.
func Teams(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Team
	}
	return out
}
