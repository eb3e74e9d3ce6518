package dataprocessing

import (
	"math"

	"scorepanel/pkg/contracts/domain"
)

// BuildTable renders the regional table of a view. Rows come from the
// unfiltered regional subset; the baseline row is kept or dropped as the
// view says. Numeric cells of every group are parsed, scaled by the group's
// table divisor and formatted; other cells pass through as text.
func BuildTable(v domain.View, t *domain.Table, groups []ResolvedGroup, matching []domain.Record, regional string) *domain.TableView {
	columns := tableColumns(v, t, groups)

	key := NormalizeName(regional)
	table := &domain.TableView{Title: v.Title, Columns: make([]string, len(columns))}
	formats := make(map[int]domain.ValueFormat)
	for i, col := range columns {
		table.Columns[i] = col.name
		if col.numeric {
			formats[i] = col.group.Format
		}
	}

	for _, rec := range matching {
		isBaseline := NormalizeName(rec.School()) == key
		if isBaseline && !v.TableIncludesBaseline {
			continue
		}

		row := domain.TableRow{
			Code:     rec.Code(),
			School:   rec.School(),
			Baseline: isBaseline,
			Cells:    make([]domain.Cell, len(columns)),
		}
		for i, col := range columns {
			raw := rec.At(col.index)
			if !col.numeric {
				row.Cells[i] = domain.Cell{Raw: raw, Value: domain.Missing, Display: raw}
				continue
			}
			g := col.group
			value := ParseNumber(raw, g.Percent)
			if g.Round && value.Valid {
				value = domain.Some(math.Round(value.Value))
			}
			value = value.Scale(g.TableDivisor)
			row.Cells[i] = domain.Cell{
				Raw:     raw,
				Value:   value,
				Display: FormatValue(value, g.Format),
				Numeric: true,
			}
		}
		table.Rows = append(table.Rows, row)
	}

	table.Summary = Summarize(table, formats)
	return table
}

type tableColumn struct {
	name    string
	index   int
	group   ResolvedGroup
	numeric bool
}

// tableColumns lists the rendered columns with the header position each one
// reads from
func tableColumns(v domain.View, t *domain.Table, groups []ResolvedGroup) []tableColumn {
	byIndex := make(map[int]ResolvedGroup)
	for _, g := range groups {
		for _, idx := range g.Indices {
			byIndex[idx] = g
		}
	}

	var columns []tableColumn
	if v.TableAllColumns {
		for i, name := range t.Columns {
			g, numeric := byIndex[i]
			columns = append(columns, tableColumn{name: name, index: i, group: g, numeric: numeric})
		}
		return columns
	}

	for _, name := range []string{domain.ColumnCode, domain.ColumnSchool} {
		columns = append(columns, tableColumn{name: name, index: t.ColumnIndex(name)})
	}
	for _, g := range groups {
		for k, idx := range g.Indices {
			columns = append(columns, tableColumn{name: g.Names[k], index: idx, group: g, numeric: true})
		}
	}
	return columns
}
