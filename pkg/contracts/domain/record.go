package domain

import "strings"

// Well-known column names shared by every sheet of the source workbook
const (
	ColumnCode     = "Código Interno"
	ColumnRegional = "Regional"
	ColumnSchool   = "Escola"
)

// Record is one row of a source table. Values are kept as the raw text read
// from the file, in header order; a Record is never modified after the loader
// builds it.
type Record struct {
	cells []string
	index map[string]int
}

// NewRecord builds a record from a header and a row of cells. Missing trailing
// cells are stored as empty strings. Lookups by name resolve to the first
// column carrying that name; blank header names are reachable only by
// position.
func NewRecord(header []string, cells []string) Record {
	values := make([]string, len(header))
	copy(values, cells)

	index := make(map[string]int, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}
	return Record{cells: values, index: index}
}

// Get returns the raw value of a column and whether the column exists
func (r Record) Get(column string) (string, bool) {
	i, ok := r.index[column]
	if !ok {
		return "", false
	}
	return r.cells[i], true
}

// Value returns the raw value of a column, or "" when absent
func (r Record) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Values returns the raw values of the given columns in order
func (r Record) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = r.Value(c)
	}
	return out
}

// At returns the raw value at a header position, or "" when out of range
func (r Record) At(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

// ValuesAt returns the raw values at the given header positions in order
func (r Record) ValuesAt(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = r.At(idx)
	}
	return out
}

// Code returns the internal school code
func (r Record) Code() string {
	return strings.TrimSpace(r.Value(ColumnCode))
}

// Regional returns the regional-unit name as written in the file
func (r Record) Regional() string {
	return r.Value(ColumnRegional)
}

// School returns the school name as written in the file. The regional
// aggregate row holds the regional name here.
func (r Record) School() string {
	return r.Value(ColumnSchool)
}

// Table is a parsed sheet: its name, the normalized header and the rows.
type Table struct {
	Name    string
	Columns []string
	Rows    []Record
}

// HasColumn reports whether the header contains the column
func (t *Table) HasColumn(column string) bool {
	return t.ColumnIndex(column) >= 0
}

// ColumnIndex returns the position of a column in the header, or -1
func (t *Table) ColumnIndex(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// MissingColumns returns the subset of columns absent from the header,
// preserving the requested order
func (t *Table) MissingColumns(columns []string) []string {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
