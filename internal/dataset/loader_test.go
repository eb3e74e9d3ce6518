package dataset

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"golang.org/x/sync/errgroup"

	"scorepanel/internal/config"
	apperrors "scorepanel/internal/errors"
	"scorepanel/internal/infrastructure"
	"scorepanel/internal/shared/testutil"
)

func countMessages(h *testutil.BufferedSlogHandler, msg string) int {
	n := 0
	for _, r := range h.GetRecords() {
		if r.Message == msg {
			n++
		}
	}
	return n
}

func TestLoaderLoadWorkbook(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)

	ds, err := NewLoader(logger, nil).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, KindWorkbook, ds.Kind)
	assert.Equal(t, 17, ds.Rows())
	assert.Equal(t,
		[]string{testutil.RegionalX, testutil.RegionalY},
		ds.Regionals([]string{config.ExcludedRegionalPrisonUnits}))

	testutil.AssertLogContains(t, handler, slog.LevelInfo, "dataset loaded")
	testutil.AssertLogAttr(t, handler, "component", "dataset_loader")
}

func TestLoaderReturnsSameDataset(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	loader := NewLoader(logger, nil)
	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)

	const callers = 8
	results := make([]*Dataset, callers)
	g, ctx := errgroup.WithContext(context.Background())
	for i := range callers {
		g.Go(func() error {
			ds, err := loader.Load(ctx, path)
			results[i] = ds
			return err
		})
	}
	require.NoError(t, g.Wait())

	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
	assert.Equal(t, 1, countMessages(handler, "dataset loaded"))

	again, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, results[0], again)

	loader.Invalidate(path)
	reloaded, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.NotSame(t, results[0], reloaded)
	assert.Equal(t, 2, countMessages(handler, "dataset loaded"))
}

func TestLoaderCSVDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.csv", "Regional;Escola\nRegional Y;Escola C\n")
	writeFile(t, dir, "a.csv", "Regional,Escola\nRegional X,Escola A\nRegional X,Escola B\n")
	writeFile(t, dir, "readme.txt", "ignored")

	logger, _ := testutil.NewTestLogger(t)
	ds, err := NewLoader(logger, nil).Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, KindCSVDir, ds.Kind)
	assert.Equal(t, []string{"a", "b"}, ds.Sheets())
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"Regional X", "Regional Y"}, ds.Regionals(nil))
}

func TestLoaderDirectoryWithWorkbook(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.RedacaoSheet())

	logger, _ := testutil.NewTestLogger(t)
	ds, err := NewLoader(logger, nil).Load(context.Background(), filepath.Dir(path))
	require.NoError(t, err)

	assert.Equal(t, KindWorkbook, ds.Kind)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, []string{config.SheetRedacao}, ds.Sheets())
}

func TestLoaderSingleCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "Dados_Acesso_Detalhado.csv", "Regional;Escola\nRegional X;Escola A\n")

	logger, _ := testutil.NewTestLogger(t)
	ds, err := NewLoader(logger, nil).Load(context.Background(), path)
	require.NoError(t, err)

	_, err = ds.Table(config.SheetAcessos)
	assert.NoError(t, err)
}

func TestLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.xlsx")},
		{"unsupported extension", writeFile(t, dir, "data.json", "{}")},
		{"empty directory", t.TempDir()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, handler := testutil.NewTestLogger(t)
			_, err := NewLoader(logger, nil).Load(context.Background(), tt.path)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
			assert.True(t, handler.ContainsMessage("dataset load failed"))
		})
	}
}

func TestLoaderRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := infrastructure.CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger, metrics)
	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)

	ctx := context.Background()
	_, err = loader.Load(ctx, path)
	require.NoError(t, err)
	_, err = loader.Load(ctx, path)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(1), sums["dataset_loads_total"], "cached load is not a read")
	assert.Equal(t, int64(17), sums["dataset_rows_loaded_total"])
}

func TestLoaderIgnoresCallerCancellation(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	loader := NewLoader(logger, nil)
	path := testutil.WriteWorkbook(t, testutil.DashboardSheets()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ds, err := loader.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, KindWorkbook, ds.Kind)

	again, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, ds, again)
}
