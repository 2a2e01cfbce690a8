// Package matchgraph builds directed, weighted matchup graphs from match
// records. An edge points from the team that took points to the team that
// conceded them: weight 3 from winner to loser, or one weight-1 edge in each
// direction on a draw. Parallel edges are kept, so a pairing played twice
// contributes twice.
package matchgraph

import (
	"encoding/json"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// Edge weights.
const (
	WinWeight  = 3
	DrawWeight = 1
)

// Edge is a directed, weighted matchup edge.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight int    `json:"weight"`
}

// Graph is a directed multigraph over team names, backed by a gonum
// weighted multigraph. Node ids are assigned in first-insertion order.
type Graph struct {
	Name  string
	g     *multi.WeightedDirectedGraph
	ids   map[string]int64
	names map[int64]string
	nodes []string
}

// New returns an empty graph.
func New(name string) *Graph {
	return &Graph{
		Name:  name,
		g:     multi.NewWeightedDirectedGraph(),
		ids:   make(map[string]int64),
		names: make(map[int64]string),
	}
}

// AddNode registers team, keeping first-insertion order.
func (g *Graph) AddNode(team string) {
	g.node(team)
}

func (g *Graph) node(team string) graph.Node {
	if id, ok := g.ids[team]; ok {
		return g.g.Node(id)
	}
	n := g.g.NewNode()
	g.g.AddNode(n)
	g.ids[team] = n.ID()
	g.names[n.ID()] = team
	g.nodes = append(g.nodes, team)
	return n
}

// AddEdge adds a parallel line from -> to, registering both endpoints.
func (g *Graph) AddEdge(from, to string, weight int) {
	f, t := g.node(from), g.node(to)
	g.g.SetWeightedLine(g.g.NewWeightedLine(f, t, float64(weight)))
}

// Nodes returns the teams in first-insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// HasNode reports whether team is in the graph.
func (g *Graph) HasNode(team string) bool {
	_, ok := g.ids[team]
	return ok
}

// Edges returns every line in insertion order.
func (g *Graph) Edges() []Edge {
	var lines []graph.WeightedLine
	for _, team := range g.nodes {
		uid := g.ids[team]
		to := g.g.From(uid)
		for to.Next() {
			it := g.g.WeightedLines(uid, to.Node().ID())
			for it.Next() {
				lines = append(lines, it.WeightedLine())
			}
		}
	}
	// line ids grow monotonically while nothing is removed
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID() < lines[j].ID() })

	out := make([]Edge, len(lines))
	for i, l := range lines {
		out[i] = Edge{
			From:   g.names[l.From().ID()],
			To:     g.names[l.To().ID()],
			Weight: int(l.Weight()),
		}
	}
	return out
}

// EdgeCount returns the number of lines, parallel lines included.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, team := range g.nodes {
		uid := g.ids[team]
		to := g.g.From(uid)
		for to.Next() {
			n += g.g.WeightedLines(uid, to.Node().ID()).Len()
		}
	}
	return n
}

// InDegree returns the weighted in-degree of every node.
func (g *Graph) InDegree() map[string]int {
	out := make(map[string]int, len(g.nodes))
	for _, team := range g.nodes {
		vid := g.ids[team]
		var sum float64
		from := g.g.To(vid)
		for from.Next() {
			it := g.g.WeightedLines(from.Node().ID(), vid)
			for it.Next() {
				sum += it.WeightedLine().Weight()
			}
		}
		out[team] = int(sum)
	}
	return out
}

// Degree is one row of an in-degree table.
type Degree struct {
	Team   string `json:"team"`
	Weight int    `json:"weight"`
}

// InDegreeTable returns InDegree sorted by weight descending, ties in node order.
func (g *Graph) InDegreeTable() []Degree {
	in := g.InDegree()
	out := make([]Degree, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, Degree{Team: n, Weight: in[n]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// MarshalJSON encodes the graph as its name, nodes and edges.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string   `json:"name"`
		Nodes []string `json:"nodes"`
		Edges []Edge   `json:"edges"`
	}{g.Name, g.Nodes(), g.Edges()})
}
