package matchgraph

import (
	"github.com/okian/partidos/internal/domain/match"
)

// Filter selects the matches a graph variant is built from.
// A nil Filter keeps every match.
type Filter func(m match.Match) bool

// Build scans matches once and adds the edges of every scored match kept by
// keep. Matches with a missing score never add an edge.
func Build(name string, matches []match.Match, keep Filter) *Graph {
	g := New(name)
	for _, m := range matches {
		if keep != nil && !keep(m) {
			continue
		}
		switch m.Outcome() {
		case match.HomeWin:
			g.AddEdge(m.HomeTeam, m.AwayTeam, WinWeight)
		case match.AwayWin:
			g.AddEdge(m.AwayTeam, m.HomeTeam, WinWeight)
		case match.Draw:
			g.AddEdge(m.HomeTeam, m.AwayTeam, DrawWeight)
			g.AddEdge(m.AwayTeam, m.HomeTeam, DrawWeight)
		}
	}
	return g
}

// League builds the graph over every team in the data.
func League(matches []match.Match) *Graph {
	return Build("league", matches, nil)
}

// Among builds the graph restricted to matches between members of teams.
func Among(name string, matches []match.Match, teams []string) *Graph {
	set := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		set[t] = struct{}{}
	}
	return Build(name, matches, func(m match.Match) bool {
		_, home := set[m.HomeTeam]
		_, away := set[m.AwayTeam]
		return home && away
	})
}

// Star builds the graph of team's own matches. Every edge has team as its
// source or destination.
func Star(matches []match.Match, team string) *Graph {
	return Build("star", matches, func(m match.Match) bool {
		return m.Involves(team)
	})
}
