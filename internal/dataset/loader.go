package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	apperrors "scorepanel/internal/errors"
	"scorepanel/internal/files"
	"scorepanel/internal/infrastructure"
	"scorepanel/pkg/contracts/domain"
)

// Loader reads data sources and keeps the result per path
type Loader struct {
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	discovery *files.Discovery

	group singleflight.Group
	mu    sync.RWMutex
	cache map[string]*Dataset
}

// NewLoader creates a loader. metrics may be nil.
func NewLoader(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger.With(slog.String("component", "dataset_loader")),
		metrics:   metrics,
		tracer:    otel.Tracer("scorepanel/dataset"),
		discovery: files.NewDiscovery(""),
		cache:     make(map[string]*Dataset),
	}
}

// Load returns the dataset at path, reading it on first use. Concurrent
// callers for the same path wait for one read and share its result; the
// shared read ignores cancellation of whichever caller started it.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("invalid data path %q", path), err)
	}

	if ds, ok := l.cached(key); ok {
		return ds, nil
	}

	v, err, shared := l.group.Do(key, func() (interface{}, error) {
		if ds, ok := l.cached(key); ok {
			return ds, nil
		}
		ds, err := l.read(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.cache[key] = ds
		l.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.logger.DebugContext(ctx, "dataset load shared", slog.String("path", key))
	}
	return v.(*Dataset), nil
}

// Invalidate drops the cached dataset for path; the next Load reads it again
func (l *Loader) Invalidate(path string) {
	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	l.mu.Lock()
	delete(l.cache, key)
	l.mu.Unlock()
}

func (l *Loader) cached(key string) (*Dataset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ds, ok := l.cache[key]
	return ds, ok
}

func (l *Loader) read(ctx context.Context, path string) (ds *Dataset, err error) {
	ctx, span := l.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.path", path)))
	defer span.End()

	start := time.Now()
	kind := "unknown"
	defer func() {
		rows := 0
		if ds != nil {
			rows = ds.Rows()
		}
		duration := time.Since(start)
		infrastructure.RecordDatasetLoad(ctx, l.metrics, kind, rows, duration, err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			l.logger.ErrorContext(ctx, "dataset load failed",
				slog.String("path", path),
				slog.String("kind", kind),
				slog.String("error", err.Error()))
			return
		}
		span.SetAttributes(
			attribute.String("dataset.kind", kind),
			attribute.Int("dataset.sheets", len(ds.order)),
			attribute.Int("dataset.rows", rows),
		)
		l.logger.InfoContext(ctx, "dataset loaded",
			slog.String("path", path),
			slog.String("kind", kind),
			slog.Int("sheets", len(ds.order)),
			slog.Int("rows", rows),
			slog.Duration("duration", duration))
	}()

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("data source %s is not readable", path), err)
	}

	var tables []*domain.Table
	switch {
	case info.IsDir():
		kind, path, tables, err = l.readDir(ctx, path)
	case files.HasExtension(path, files.CSVExtensions...):
		kind = KindCSV
		var t *domain.Table
		if t, err = ReadCSV(path, files.FileInfo{Name: filepath.Base(path)}.Stem()); err == nil {
			tables = []*domain.Table{t}
		}
	case files.HasExtension(path, files.WorkbookExtensions...):
		kind = KindWorkbook
		tables, err = ReadWorkbook(ctx, path)
	default:
		err = apperrors.NewStorageError(fmt.Sprintf("unsupported data source %s", path), nil)
	}
	if err != nil {
		return nil, err
	}

	return New(path, kind, tables), nil
}

// readDir loads the CSV files of a directory, or its newest workbook when it
// has no CSV files
func (l *Loader) readDir(ctx context.Context, dir string) (string, string, []*domain.Table, error) {
	csvFiles, err := l.discovery.FindCSVFiles(dir)
	if err != nil {
		return KindCSVDir, dir, nil, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}
	if len(csvFiles) > 0 {
		tables, err := ReadCSVDir(ctx, csvFiles)
		return KindCSVDir, dir, tables, err
	}

	workbooks, err := l.discovery.FindWorkbooks(dir)
	if err != nil {
		return KindWorkbook, dir, nil, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}
	latest, ok := files.GetLatestFile(workbooks)
	if !ok {
		return KindCSVDir, dir, nil, apperrors.NewStorageError(fmt.Sprintf("no data files in %s", dir), nil)
	}
	l.logger.DebugContext(ctx, "using newest workbook in directory",
		slog.String("dir", dir),
		slog.String("file", latest.Name))

	tables, err := ReadWorkbook(ctx, latest.Path)
	return KindWorkbook, latest.Path, tables, err
}
