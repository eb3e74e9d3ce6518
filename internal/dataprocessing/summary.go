package dataprocessing

import (
	"github.com/montanaflynn/stats"

	"scorepanel/pkg/contracts/domain"
)

// Summarize computes mean, median, min and max of every numeric column over
// the school rows of a table. formats is keyed by column position and names
// the numeric columns. The baseline row is never part of the sample.
func Summarize(table *domain.TableView, formats map[int]domain.ValueFormat) []domain.ColumnSummary {
	var out []domain.ColumnSummary
	for i, col := range table.Columns {
		format, ok := formats[i]
		if !ok {
			continue
		}

		var data []float64
		for _, row := range table.Rows {
			if row.Baseline {
				continue
			}
			if v := row.Cells[i].Value; v.Valid {
				data = append(data, v.Value)
			}
		}
		s := summarizeColumn(col, data)
		s.Format = format
		out = append(out, s)
	}
	return out
}

func summarizeColumn(column string, data []float64) domain.ColumnSummary {
	s := domain.ColumnSummary{Column: column, Count: len(data)}
	if len(data) == 0 {
		return s
	}

	if mean, err := stats.Mean(data); err == nil {
		s.Mean = domain.Some(mean)
	}
	if median, err := stats.Median(data); err == nil {
		s.Median = domain.Some(median)
	}
	if min, err := stats.Min(data); err == nil {
		s.Min = domain.Some(min)
	}
	if max, err := stats.Max(data); err == nil {
		s.Max = domain.Some(max)
	}
	return s
}
