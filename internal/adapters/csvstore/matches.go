package csvstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/partidos/internal/domain/match"
)

// Columns names the CSV header fields that make up a match.
type Columns struct {
	Date      string
	HomeTeam  string
	AwayTeam  string
	HomeGoals string
	AwayGoals string
}

// DefaultColumns matches the partidos.csv header.
var DefaultColumns = Columns{
	Date:      "fecha",
	HomeTeam:  "equipo_local",
	AwayTeam:  "equipo_visitante",
	HomeGoals: "goles_local",
	AwayGoals: "goles_visitante",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"02/01/2006",
}

// ParseDate accepts the date layouts found in match files. Slash dates are
// read month first, falling back to day first when the month is out of range.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// Matches converts the table rows into match records. The date column is
// optional; the team and goal columns are required.
func (t *Table) Matches(cols Columns) ([]match.Match, error) {
	idx := make(map[string]int, 5)
	for _, name := range []string{cols.HomeTeam, cols.AwayTeam, cols.HomeGoals, cols.AwayGoals} {
		i := t.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoColumn, name)
		}
		idx[name] = i
	}
	dateIdx := t.Index(cols.Date)

	out := make([]match.Match, 0, len(t.Rows))
	for n, row := range t.Rows {
		m := match.Match{
			HomeTeam: text(row[idx[cols.HomeTeam]]),
			AwayTeam: text(row[idx[cols.AwayTeam]]),
		}
		var err error
		if m.HomeGoals, err = goals(row[idx[cols.HomeGoals]]); err != nil {
			return nil, fmt.Errorf("row %d %s: %w", n+1, cols.HomeGoals, err)
		}
		if m.AwayGoals, err = goals(row[idx[cols.AwayGoals]]); err != nil {
			return nil, fmt.Errorf("row %d %s: %w", n+1, cols.AwayGoals, err)
		}
		if dateIdx >= 0 && row[dateIdx] != nil {
			if m.Date, err = ParseDate(text(row[dateIdx])); err != nil {
				return nil, fmt.Errorf("row %d %s: %w", n+1, cols.Date, err)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func goals(v any) (*int, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		n := int(x)
		return &n, nil
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("%w: %v", ErrBadNumber, x)
		}
		n := int(x)
		return &n, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrBadNumber, x)
	}
}
