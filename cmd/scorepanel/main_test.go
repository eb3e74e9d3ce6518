package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scorepanel/internal/services"
	"scorepanel/internal/shared/testutil"
	"scorepanel/pkg/contracts/domain"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func workbook(t *testing.T) string {
	t.Helper()
	return testutil.WriteWorkbook(t, testutil.DashboardSheets()...)
}

func TestRegionals(t *testing.T) {
	stdout, _, err := runCLI(t, "-data", workbook(t), "regionals")
	require.NoError(t, err)
	assert.Equal(t, "Regional X\nRegional Y\n", stdout)
}

func TestDataFromEnvironment(t *testing.T) {
	t.Setenv("SCOREPANEL_DATA", workbook(t))

	stdout, _, err := runCLI(t, "regionals")
	require.NoError(t, err)
	assert.Contains(t, stdout, testutil.RegionalX)
}

func TestViews(t *testing.T) {
	stdout, _, err := runCLI(t, "-data", workbook(t), "views")
	require.NoError(t, err)
	for _, id := range []string{"redacao", "objetivas", "participacao", "acessos"} {
		assert.Contains(t, stdout, id)
	}
}

func TestSchools(t *testing.T) {
	stdout, _, err := runCLI(t, "-data", workbook(t), "schools", "-view", "redacao", "-regional", testutil.RegionalX)
	require.NoError(t, err)
	assert.Equal(t, testutil.CompleteSchool+"\n", stdout)
}

func TestReportFormats(t *testing.T) {
	data := workbook(t)

	t.Run("table", func(t *testing.T) {
		stdout, _, err := runCLI(t, "-data", data, "report", "-view", "redacao", "-regional", testutil.RegionalX, "-summary")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "Desempenhos em Redação\n"))
		assert.Contains(t, stdout, testutil.CompleteSchool)
		assert.Contains(t, stdout, "Mediana")
		// participation mean over the two schools of Regional X
		assert.Contains(t, stdout, "70,25%")
	})

	t.Run("csv", func(t *testing.T) {
		stdout, _, err := runCLI(t, "-data", data, "report", "-view", "acessos", "-regional", testutil.RegionalX, "-format", "csv")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "\xef\xbb\xbf"))
		assert.Contains(t, stdout, ";")
	})

	t.Run("csv without bom", func(t *testing.T) {
		stdout, _, err := runCLI(t, "-data", data, "report", "-view", "acessos", "-regional", testutil.RegionalX, "-format", "csv", "-bom=false", "-delimiter", ",")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout, "Regional,"), stdout)
	})

	t.Run("json to file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "report.json")
		_, _, err := runCLI(t, "-data", data, "report", "-view", "redacao", "-regional", testutil.RegionalX, "-format", "json", "-out", out)
		require.NoError(t, err)

		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		var report domain.Report
		require.NoError(t, json.Unmarshal(raw, &report))
		assert.Equal(t, domain.ViewRedacao, report.Selection.View)
		require.NotNil(t, report.Chart)
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := runCLI(t, "-data", data, "report", "-view", "redacao", "-regional", testutil.RegionalX, "-format", "xml")
		assert.EqualError(t, err, `unsupported format "xml"`)
	})
}

func TestChart(t *testing.T) {
	data := workbook(t)

	t.Run("png", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "redacao.png")
		stdout, _, err := runCLI(t, "-data", data, "chart", "-view", "redacao", "-regional", testutil.RegionalX, "-out", out)
		require.NoError(t, err)
		assert.Contains(t, stdout, out)

		raw, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")))
	})

	t.Run("view without chart", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "acessos.png")
		_, _, err := runCLI(t, "-data", data, "chart", "-view", "acessos", "-regional", testutil.RegionalX, "-out", out)
		assert.EqualError(t, err, "view acessos has no chart")
		assert.NoFileExists(t, out)
	})

	t.Run("out required", func(t *testing.T) {
		_, _, err := runCLI(t, "-data", data, "chart", "-view", "redacao", "-regional", testutil.RegionalX)
		assert.EqualError(t, err, "-out is required")
	})
}

func TestSelectionErrors(t *testing.T) {
	data := workbook(t)

	_, _, err := runCLI(t, "-data", data, "report", "-view", "redacao")
	assert.EqualError(t, err, "-regional is required")

	_, _, err = runCLI(t, "-data", data, "report", "-view", "notas", "-regional", testutil.RegionalX)
	assert.True(t, errors.Is(err, services.ErrViewNotFound), "got %v", err)

	_, _, err = runCLI(t, "-data", data, "report", "-view", "redacao", "-regional", "Regional Z")
	assert.True(t, errors.Is(err, services.ErrUnknownRegional), "got %v", err)
}

func TestNoSubcommand(t *testing.T) {
	_, _, err := runCLI(t)
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "ScorePanel v"))
}

func TestOutputCloserReportsError(t *testing.T) {
	c := &rootConfig{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}

	w, closeOut, err := c.output("")
	require.NoError(t, err)
	assert.Equal(t, c.stdout, w)
	assert.NoError(t, closeOut())

	path := filepath.Join(t.TempDir(), "out", "redacao.csv")
	_, closeOut, err = c.output(path)
	require.NoError(t, err)
	require.NoError(t, closeOut())
	assert.Error(t, closeOut(), "closing twice must surface the error")
	assert.FileExists(t, path)
}
