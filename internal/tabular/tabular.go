// Package tabular models already-parsed spreadsheet data as named tables of
// string cells, with the forgiving column lookup the rule sheets need:
// case-insensitive exact match first, substring match as a fallback.
package tabular

import "strings"

// Table is one named sheet worth of rows.
type Table struct {
	Name    string
	Columns []string
	rows    []map[string]string
}

// New creates an empty table with trimmed column headers.
func New(name string, columns []string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = strings.TrimSpace(c)
	}
	return &Table{Name: name, Columns: cols}
}

// Append adds a row of cells in column order. Short rows are padded with
// empty cells; extra cells are ignored.
func (t *Table) Append(cells []string) {
	row := make(map[string]string, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(cells) {
			row[col] = cells[i]
		} else {
			row[col] = ""
		}
	}
	t.rows = append(t.rows, row)
}

// Len reports the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether the table is nil or has no rows.
func (t *Table) Empty() bool { return t == nil || len(t.rows) == 0 }

// Rows returns the table's rows.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i := range t.rows {
		rows[i] = Row{table: t, cells: t.rows[i]}
	}
	return rows
}

// FindColumn returns the first column matching any candidate
// case-insensitively, then falls back to the first column containing a
// candidate as a substring. Returns "" when nothing matches.
func (t *Table) FindColumn(candidates ...string) string {
	lower := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		if _, ok := lower[strings.ToLower(c)]; !ok {
			lower[strings.ToLower(c)] = c
		}
	}
	for _, cand := range candidates {
		if c, ok := lower[strings.ToLower(cand)]; ok {
			return c
		}
	}
	for _, c := range t.Columns {
		cl := strings.ToLower(c)
		for _, cand := range candidates {
			if strings.Contains(cl, strings.ToLower(cand)) {
				return c
			}
		}
	}
	return ""
}

// Row is one table row. Cell access goes through the owning table's column
// lookup so callers can name columns loosely.
type Row struct {
	table *Table
	cells map[string]string
}

// Get returns the cleaned cell value for the first candidate column that
// resolves, or "" when none do.
func (r Row) Get(candidates ...string) string {
	col := r.table.FindColumn(candidates...)
	if col == "" {
		return ""
	}
	return Clean(r.cells[col])
}
