package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "scorepanel/internal/errors"
	"scorepanel/pkg/contracts/domain"
)

// Source kinds reported in metrics and logs
const (
	KindWorkbook = "xlsx"
	KindCSV      = "csv"
	KindCSVDir   = "csv_dir"
)

// Dataset is the parsed content of one data source. It is never modified
// after New returns.
type Dataset struct {
	Source   string
	Kind     string
	LoadedAt time.Time

	tables map[string]*domain.Table
	order  []string
}

// New builds a dataset from tables, keeping their order. A later table with
// the name of an earlier one is dropped.
func New(source, kind string, tables []*domain.Table) *Dataset {
	d := &Dataset{
		Source:   source,
		Kind:     kind,
		LoadedAt: time.Now(),
		tables:   make(map[string]*domain.Table, len(tables)),
	}
	for _, t := range tables {
		if _, dup := d.tables[t.Name]; dup {
			continue
		}
		d.tables[t.Name] = t
		d.order = append(d.order, t.Name)
	}
	return d
}

// Table returns the sheet with the given name. A missing sheet is a
// configuration error of whichever view asked for it.
func (d *Dataset) Table(name string) (*domain.Table, error) {
	if t, ok := d.tables[name]; ok {
		return t, nil
	}
	return nil, apperrors.NewConfigError(fmt.Sprintf("sheet %q not found in %s", name, d.Source), nil).
		WithContext("sheet", name)
}

// Sheets returns the sheet names in file order
func (d *Dataset) Sheets() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Rows returns the number of data rows over all sheets
func (d *Dataset) Rows() int {
	n := 0
	for _, t := range d.tables {
		n += len(t.Rows)
	}
	return n
}

// Regionals returns the sorted, de-duplicated regional names found in any
// sheet with a Regional column. Names equal to an excluded entry after
// trimming and upper-casing are left out.
func (d *Dataset) Regionals(excluded []string) []string {
	skip := make(map[string]bool, len(excluded))
	for _, e := range excluded {
		skip[strings.ToUpper(strings.TrimSpace(e))] = true
	}

	seen := make(map[string]bool)
	var out []string
	for _, name := range d.order {
		t := d.tables[name]
		if !t.HasColumn(domain.ColumnRegional) {
			continue
		}
		for _, r := range t.Rows {
			reg := strings.TrimSpace(r.Regional())
			if reg == "" || seen[reg] || skip[strings.ToUpper(reg)] {
				continue
			}
			seen[reg] = true
			out = append(out, reg)
		}
	}
	sort.Strings(out)
	return out
}

// buildTable turns raw rows into a table. The first row is the header.
func buildTable(name string, rows [][]string) *domain.Table {
	t := &domain.Table{Name: name}
	if len(rows) == 0 {
		return t
	}

	t.Columns = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Columns[i] = normalizeHeader(h)
	}

	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t.Rows = append(t.Rows, domain.NewRecord(t.Columns, row))
	}
	return t
}

func normalizeHeader(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
