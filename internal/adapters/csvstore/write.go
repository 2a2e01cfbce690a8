package csvstore

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/okian/partidos/internal/domain/match"
)

// WriteMatches writes matches as CSV with a header named by cols. Missing
// goals and dates are written as empty cells.
func WriteMatches(w io.Writer, matches []match.Match, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{cols.Date, cols.HomeTeam, cols.AwayTeam, cols.HomeGoals, cols.AwayGoals}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, m := range matches {
		date := ""
		if !m.Date.IsZero() {
			date = m.Date.Format("2006-01-02")
		}
		if err := cw.Write([]string{date, m.HomeTeam, m.AwayTeam, itoa(m.HomeGoals), itoa(m.AwayGoals)}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func itoa(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
