package dataset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scorepanel/internal/errors"
	"scorepanel/pkg/contracts/domain"
)

func TestBuildTable(t *testing.T) {
	rows := [][]string{
		{"\ufeffCódigo Interno", " Regional ", "Escola\t", "Nota"},
		{"1", "Regional X", "Escola A", "700"},
		{"", "  ", ""},
		{},
		{"2", "Regional X", "Escola B"},
	}

	table := buildTable("Dados", rows)
	assert.Equal(t, []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool, "Nota"}, table.Columns)
	require.Len(t, table.Rows, 2)

	v, ok := table.Rows[1].Get("Nota")
	assert.True(t, ok, "short rows are padded")
	assert.Equal(t, "", v)
	assert.Equal(t, "Escola B", table.Rows[1].School())
}

func TestBuildTableEmpty(t *testing.T) {
	table := buildTable("Vazia", nil)
	assert.Equal(t, "Vazia", table.Name)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestDatasetTable(t *testing.T) {
	ds := New("mem", KindCSV, []*domain.Table{
		buildTable("A", [][]string{{"Regional"}, {"R1"}}),
		buildTable("B", [][]string{{"Regional"}, {"R2"}, {"R3"}}),
		buildTable("A", [][]string{{"Regional"}, {"ignored"}}),
	})

	assert.Equal(t, []string{"A", "B"}, ds.Sheets())
	assert.Equal(t, 3, ds.Rows())

	a, err := ds.Table("A")
	require.NoError(t, err)
	assert.Equal(t, "R1", a.Rows[0].Regional())

	_, err = ds.Table("Dados_Redação")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeConfig, appErr.Type)
	assert.Equal(t, "Dados_Redação", appErr.ContextString("sheet"))
}

func TestDatasetRegionals(t *testing.T) {
	ds := New("mem", KindCSV, []*domain.Table{
		buildTable("A", [][]string{
			{"Regional", "Escola"},
			{"Regional Y", "E1"},
			{" Regional X ", "E2"},
			{"", "E3"},
			{"de unidades escolares prisionais e socioeducativas ", "E4"},
		}),
		buildTable("B", [][]string{
			{"Regional", "Escola"},
			{"Regional X", "E5"},
			{"Regional Z", "E6"},
		}),
		buildTable("Sem regional", [][]string{{"Escola"}, {"E7"}}),
	})

	assert.Equal(t,
		[]string{"Regional X", "Regional Y", "Regional Z"},
		ds.Regionals([]string{"DE UNIDADES ESCOLARES PRISIONAIS E SOCIOEDUCATIVAS"}))
	assert.Len(t, ds.Regionals(nil), 4)
}
