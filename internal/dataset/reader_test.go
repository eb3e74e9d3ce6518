package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorepanel/internal/config"
	apperrors "scorepanel/internal/errors"
	"scorepanel/internal/shared/testutil"
	"scorepanel/pkg/contracts/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)

	tables, err := ReadWorkbook(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, tables, 4)

	names := make([]string, len(tables))
	for i, tb := range tables {
		names[i] = tb.Name
	}
	assert.Equal(t, []string{
		config.SheetRedacao, config.SheetObjetivas, config.SheetParticipacao, config.SheetAcessos,
	}, names)

	participacao := tables[2]
	assert.Equal(t, domain.ColumnCode, participacao.Columns[0])
	require.Len(t, participacao.Rows, 4)
	assert.Equal(t, "1.200", participacao.Rows[0].Value(participacao.Columns[3]))
	assert.Equal(t, "120,4", participacao.Rows[1].Value(participacao.Columns[3]))
	assert.Equal(t, "", participacao.Rows[2].Value(participacao.Columns[4]))

	redacao := tables[0]
	partial := redacao.Rows[2]
	assert.Equal(t, testutil.PartialSchool, partial.School())
	v, ok := partial.Get(redacao.Columns[len(redacao.Columns)-1])
	assert.True(t, ok, "trailing empty cell is padded")
	assert.Equal(t, "", v)
}

func TestReadWorkbookMissingFile(t *testing.T) {
	_, err := ReadWorkbook(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestReadCSVSemicolonWithBOM(t *testing.T) {
	path := writeFile(t, t.TempDir(), "redacao.csv",
		"\ufeffCódigo Interno; Regional ;Escola;Nota\n"+
			"1;Regional X;Escola A;720,5\n"+
			";;;\n"+
			"2;Regional X;Escola B\n")

	table, err := ReadCSV(path, "redacao")
	require.NoError(t, err)
	assert.Equal(t, "redacao", table.Name)
	assert.Equal(t, []string{domain.ColumnCode, domain.ColumnRegional, domain.ColumnSchool, "Nota"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "720,5", table.Rows[0].Value("Nota"))
	assert.Equal(t, "", table.Rows[1].Value("Nota"))
}

func TestReadCSVComma(t *testing.T) {
	path := writeFile(t, t.TempDir(), "acessos.csv",
		"Regional,Escola,Semana 1\n"+
			"Regional X,\"Escola A, anexo\",\"85,12%\"\n")

	table, err := ReadCSV(path, "acessos")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Escola A, anexo", table.Rows[0].School())
	assert.Equal(t, "85,12%", table.Rows[0].Value("Semana 1"))
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "none.csv"), "none")
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"semicolon", "a;b;c\n1,5;2;3", ';'},
		{"comma", "a,b,c\n1;2;3", ','},
		{"single column", "a\n1", ','},
		{"no newline", "a;b", ';'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.data)))
		})
	}
}
