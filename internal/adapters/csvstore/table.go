// Package csvstore reads match CSV files into typed, ordered tables and
// converts them to match records.
package csvstore

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors.
var (
	ErrEmpty     = errors.New("csv has no header")
	ErrTooMany   = errors.New("row has more fields than the header")
	ErrNoColumn  = errors.New("column not found")
	ErrBadNumber = errors.New("not a whole number")
	ErrBadDate   = errors.New("unrecognized date")
)

// missing lists the cell values read as null.
var missing = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// IsMissing reports whether a raw cell is a missing-value marker.
func IsMissing(raw string) bool {
	_, ok := missing[strings.TrimSpace(raw)]
	return ok
}

// Table is a CSV file with typed cells. Each cell is nil, int64, float64
// or string; the type is inferred per column from its non-missing cells.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of column name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Records returns the rows as ordered key-value records.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = Record{columns: t.Columns, values: row}
	}
	return out
}

// Record is one row keyed by column. It marshals to a JSON object with keys
// in header order.
type Record struct {
	columns []string
	values  []any
}

// Get returns the value of column name and whether the column exists.
func (r Record) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Read parses CSV from r. Short rows are padded with nulls; long rows are an
// error. An input without a header is ErrEmpty.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	header = dedupeColumns(header)

	var raw [][]string
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("line %d: %w: expected %d, saw %d", line, ErrTooMany, len(header), len(rec))
		}
		raw = append(raw, rec)
	}

	t := &Table{Columns: header, Rows: make([][]any, len(raw))}
	for i := range raw {
		t.Rows[i] = make([]any, len(header))
	}
	for col := range header {
		convert := inferColumn(raw, col)
		for i, rec := range raw {
			if col >= len(rec) || IsMissing(rec[col]) {
				continue
			}
			t.Rows[i][col] = convert(rec[col])
		}
	}
	return t, nil
}

// dedupeColumns renames repeated header names to name.1, name.2 and so on,
// skipping suffixes that are already taken.
func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, col := range header {
		n := counts[col]
		for n > 0 {
			counts[col] = n + 1
			col = col + "." + strconv.Itoa(n)
			n = counts[col]
		}
		out[i] = col
		counts[col] = n + 1
	}
	return out
}

type converter func(string) any

// inferColumn picks the narrowest type that fits every non-missing cell.
func inferColumn(raw [][]string, col int) converter {
	allInt, allFloat, seen := true, true, false
	for _, rec := range raw {
		if col >= len(rec) || IsMissing(rec[col]) {
			continue
		}
		seen = true
		v := strings.TrimSpace(rec[col])
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if f, err := strconv.ParseFloat(v, 64); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			allFloat = false
		}
	}
	switch {
	case !seen:
		return func(s string) any { return s }
	case allInt:
		return func(s string) any {
			n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			return n
		}
	case allFloat:
		return func(s string) any {
			f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
			return f
		}
	default:
		return func(s string) any { return s }
	}
}
