package app

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/okian/partidos/internal/domain/match"
)

const previewRows = 5

// WriteReport prints the run summary followed by its tables.
func WriteReport(w io.Writer, rep *Report, focal string) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(bw, format, args...) }

	source := "api"
	if rep.FromCache {
		source = "cache"
	}
	p("Partidos descargados: %d (%s %d, %s)\n", len(rep.Matches), rep.Competition, rep.Season, source)
	rows := make([][]string, 0, previewRows)
	for _, m := range head(rep.Matches, previewRows) {
		rows = append(rows, []string{date(m), m.HomeTeam, m.AwayTeam, goals(m.HomeGoals), goals(m.AwayGoals)})
	}
	table(bw, []string{"fecha", "local", "visitante", "goles_local", "goles_visitante"}, rows)

	p("\nDatos del modelo: %d observaciones\n", len(rep.Observations))
	n := min(previewRows, len(rep.Observations))
	rows = rows[:0]
	for _, o := range rep.Observations[:n] {
		rows = append(rows, []string{fmt.Sprintf("%.0f", o.Goals), fmt.Sprintf("%.0f", o.Shots)})
	}
	table(bw, []string{"goles", "disparos"}, rows)

	f := rep.Fit
	p("\nCoeficiente (pendiente): %.4f\n", f.Slope.Estimate)
	p("Intercepto: %.4f\n", f.Intercept.Estimate)
	p("R²: %.4f\n", f.RSquared)
	table(bw, []string{"", "coef", "std err", "t", "P>|t|"}, [][]string{
		{"const", ff(f.Intercept.Estimate, 4), ff(f.Intercept.StdErr, 4), ff(f.Intercept.T, 3), ff(f.Intercept.P, 3)},
		{"disparos", ff(f.Slope.Estimate, 4), ff(f.Slope.StdErr, 4), ff(f.Slope.T, 3), ff(f.Slope.P, 3)},
	})
	table(bw, nil, [][]string{
		{"observaciones", strconv.Itoa(f.N)},
		{"R² ajustado", ff(f.AdjRSquared, 4)},
		{"F", ff(f.FStatistic, 4)},
		{"Prob (F)", fmt.Sprintf("%.4g", f.FPValue)},
		{"error estándar residual", ff(f.ResidualSE, 4)},
	})

	p("\nTop %d equipos por puntos:\n", len(rep.Top))
	rows = rows[:0]
	for _, e := range rep.Top {
		rows = append(rows, []string{
			strconv.Itoa(e.Rank), e.Team, strconv.Itoa(e.Points),
			strconv.Itoa(e.Played), strconv.Itoa(e.Wins), strconv.Itoa(e.Draws), strconv.Itoa(e.Losses),
		})
	}
	table(bw, []string{"#", "equipo", "puntos", "pj", "g", "e", "p"}, rows)

	p("\nPuntos recibidos (solo %s y sus rivales):\n", focal)
	rows = rows[:0]
	for _, d := range rep.StarInDegree {
		rows = append(rows, []string{d.Team, strconv.Itoa(d.Weight)})
	}
	table(bw, []string{"equipo", "puntos recibidos"}, rows)

	if len(rep.Artifacts) > 0 {
		p("\nArchivos:\n")
		for _, a := range rep.Artifacts {
			p("%s\n", a)
		}
	}
	return bw.Flush()
}

// table renders rows as a plain left-aligned table. A nil header prints
// rows only.
func table(w io.Writer, header []string, rows [][]string) {
	t := tablewriter.NewWriter(w)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	if header != nil {
		t.SetHeader(header)
	}
	t.AppendBulk(rows)
	t.Render()
}

func ff(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func head(ms []match.Match, n int) []match.Match {
	if len(ms) > n {
		return ms[:n]
	}
	return ms
}

func date(m match.Match) string {
	if m.Date.IsZero() {
		return "-"
	}
	return m.Date.Format("2006-01-02 15:04")
}

func goals(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}
