// Package render draws dashboard charts and matchup graphs.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/okian/partidos/internal/domain/kpi"
	"github.com/okian/partidos/internal/domain/regression"
	"github.com/okian/partidos/pkg/metrics"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartHeight  = 480
	pieSize      = 480
	barWidth     = 36
	barSpacing   = 12
	minBarsWidth = 640
	chartPadding = 40
)

// GoalsBarChart writes an SVG bar chart of goals per team, in the given order.
func GoalsBarChart(w io.Writer, rows []kpi.TeamGoals) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(rows))
	top := 0
	for _, r := range rows {
		bars = append(bars, chart.Value{Label: r.Team, Value: float64(r.Goals)})
		if r.Goals > top {
			top = r.Goals
		}
	}

	width := len(rows)*(barWidth+barSpacing) + 4*chartPadding
	if width < minBarsWidth {
		width = minBarsWidth
	}

	c := chart.BarChart{
		Title:      "Goles por equipo",
		Background: chart.Style{Padding: chart.Box{Top: chartPadding, Left: chartPadding}},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(max(top, 1))},
		},
		Bars: bars,
	}
	if err := c.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render goals chart: %w", err)
	}
	metrics.RecordChartRender("goals")
	return nil
}

// OutcomePieChart writes an SVG pie chart of outcome label frequencies,
// each slice labelled with its share.
func OutcomePieChart(w io.Writer, shares []kpi.OutcomeShare) error {
	total := 0
	for _, s := range shares {
		total += s.Count
	}
	values := make([]chart.Value, 0, len(shares))
	for _, s := range shares {
		if s.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", s.Label, 100*float64(s.Count)/float64(total)),
			Value: float64(s.Count),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	c := chart.PieChart{
		Title:  "Distribución de resultados",
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}
	if err := c.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render outcome chart: %w", err)
	}
	metrics.RecordChartRender("outcomes")
	return nil
}

// RegressionChart writes a scatter of goals against shots with the fitted line.
func RegressionChart(w io.Writer, obs []regression.Observation, fit regression.Result) error {
	if len(obs) == 0 {
		return ErrNoData
	}

	xs := make([]float64, len(obs))
	ys := make([]float64, len(obs))
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for i, o := range obs {
		xs[i], ys[i] = o.Shots, o.Goals
		minX = math.Min(minX, xs[i])
		maxX = math.Max(maxX, xs[i])
		maxY = math.Max(maxY, ys[i])
	}
	if minX == maxX {
		maxX = minX + 1
	}
	lineY := []float64{fit.Predict(minX), fit.Predict(maxX)}
	maxY = math.Max(maxY, math.Max(lineY[0], lineY[1]))
	minY := math.Min(0, math.Min(lineY[0], lineY[1]))

	c := chart.Chart{
		Title:      "Goles vs tiros",
		Background: chart.Style{Padding: chart.Box{Top: chartPadding, Left: chartPadding}},
		Height:     chartHeight,
		XAxis: chart.XAxis{
			Name:  "Tiros (simulados)",
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  "Goles",
			Range: &chart.ContinuousRange{Min: minY, Max: maxY + 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "partidos",
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4},
				XValues: xs,
				YValues: ys,
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("y = %.3fx + %.3f", fit.Slope.Estimate, fit.Intercept.Estimate),
				XValues: []float64{minX, maxX},
				YValues: lineY,
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	if err := c.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render regression chart: %w", err)
	}
	metrics.RecordChartRender("regression")
	return nil
}
