package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorepanel/pkg/contracts/domain"
)

func TestSummarize(t *testing.T) {
	cell := func(v domain.Number) domain.Cell { return domain.Cell{Value: v, Numeric: true} }
	table := &domain.TableView{
		Columns: []string{"Escola", "N1", "N2"},
		Rows: []domain.TableRow{
			{School: "REGIONAL X", Baseline: true, Cells: []domain.Cell{{Raw: "REGIONAL X"}, cell(domain.Some(1000)), cell(domain.Some(1000))}},
			{School: "Escola A", Cells: []domain.Cell{{Raw: "Escola A"}, cell(domain.Some(700)), cell(domain.Missing)}},
			{School: "Escola B", Cells: []domain.Cell{{Raw: "Escola B"}, cell(domain.Some(500)), cell(domain.Missing)}},
			{School: "Escola C", Cells: []domain.Cell{{Raw: "Escola C"}, cell(domain.Some(300)), cell(domain.Missing)}},
		},
	}
	formats := map[int]domain.ValueFormat{1: domain.FormatDecimal, 2: domain.FormatPercent}

	got := Summarize(table, formats)
	require.Len(t, got, 2)

	n1 := got[0]
	assert.Equal(t, "N1", n1.Column)
	assert.Equal(t, domain.FormatDecimal, n1.Format)
	assert.Equal(t, 3, n1.Count)
	assert.Equal(t, domain.Some(500), n1.Mean)
	assert.Equal(t, domain.Some(500), n1.Median)
	assert.Equal(t, domain.Some(300), n1.Min)
	assert.Equal(t, domain.Some(700), n1.Max)

	n2 := got[1]
	assert.Equal(t, "N2", n2.Column)
	assert.Equal(t, domain.FormatPercent, n2.Format)
	assert.Zero(t, n2.Count)
	assert.False(t, n2.Mean.Valid)
	assert.False(t, n2.Max.Valid)
}
