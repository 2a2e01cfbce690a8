package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/okian/partidos/internal/domain/matchgraph"
	"github.com/okian/partidos/pkg/metrics"
)

// Graphviz layout engines.
const (
	Hierarchical  = "dot"
	ForceDirected = "neato"
)

const graphName = "G"

// Style controls how a matchup graph is drawn.
type Style struct {
	Layout    string
	Title     string
	NodeColor string
	EdgeColor string
	// Highlight is drawn with FocusColor, e.g. the centre of a star graph.
	Highlight  string
	FocusColor string
}

// DefaultStyle is a hierarchical layout with neutral colours.
func DefaultStyle(title string) Style {
	return Style{
		Layout:     Hierarchical,
		Title:      title,
		NodeColor:  "lightblue",
		EdgeColor:  "gray40",
		FocusColor: "gold",
	}
}

// DOT converts g to Graphviz source. Every edge carries its weight as label,
// and parallel edges are written once per match.
func DOT(g *matchgraph.Graph, style Style) (string, error) {
	layout := style.Layout
	if layout == "" {
		layout = Hierarchical
	}

	out := gographviz.NewEscape()
	if err := out.SetName(graphName); err != nil {
		return "", err
	}
	if err := out.SetDir(true); err != nil {
		return "", err
	}

	attrs := map[string]string{"layout": layout}
	if style.Title != "" {
		attrs["label"] = style.Title
		attrs["labelloc"] = "t"
	}
	if layout == ForceDirected {
		attrs["overlap"] = "false"
	}
	for k, v := range attrs {
		if err := out.AddAttr(graphName, k, v); err != nil {
			return "", fmt.Errorf("graph attr %s: %w", k, err)
		}
	}

	for _, team := range g.Nodes() {
		na := map[string]string{"shape": "ellipse", "style": "filled"}
		color := style.NodeColor
		if team == style.Highlight && style.FocusColor != "" {
			color = style.FocusColor
		}
		if color != "" {
			na["fillcolor"] = color
		}
		if err := out.AddNode(graphName, team, na); err != nil {
			return "", fmt.Errorf("node %q: %w", team, err)
		}
	}

	for _, e := range g.Edges() {
		ea := map[string]string{
			"label":    strconv.Itoa(e.Weight),
			"weight":   strconv.Itoa(e.Weight),
			"penwidth": strconv.Itoa(e.Weight),
		}
		if style.EdgeColor != "" {
			ea["color"] = style.EdgeColor
		}
		if err := out.AddEdge(e.From, e.To, true, ea); err != nil {
			return "", fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}

	return out.String(), nil
}

// WriteDOT writes the DOT form of g to w.
func WriteDOT(w io.Writer, g *matchgraph.Graph, style Style) error {
	src, err := DOT(g, style)
	if err != nil {
		return fmt.Errorf("render %s graph: %w", g.Name, err)
	}
	if _, err := io.WriteString(w, src); err != nil {
		return err
	}
	metrics.UpdateGraphEdges(g.Name, g.EdgeCount())
	return nil
}
