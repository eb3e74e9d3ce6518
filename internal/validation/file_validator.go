package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "scorepanel/internal/errors"
	"scorepanel/internal/files"
)

// FileValidator checks data sources and export targets before they are used
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateSource checks that path is a readable workbook, a CSV file or a
// directory holding at least one of them. Failures are STORAGE errors.
func (v *FileValidator) ValidateSource(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Data source does not exist", slog.String("path", path))
		return apperrors.NewStorageError(fmt.Sprintf("data source %s does not exist", path), err)
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to stat data source %s", path), err)
	}

	if info.IsDir() {
		count, err := v.CountSources(path)
		if err != nil {
			return err
		}
		if count == 0 {
			v.logger.Error("Data directory holds no workbook or CSV file", slog.String("directory", path))
			return apperrors.NewStorageError(fmt.Sprintf("no workbook or CSV file in %s", path), nil)
		}
		return nil
	}

	if !files.HasExtension(path, files.WorkbookExtensions...) && !files.HasExtension(path, files.CSVExtensions...) {
		return apperrors.NewStorageError(fmt.Sprintf("unsupported data source %s", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Data source is not readable",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("data source %s is not readable", path), err)
	}
	file.Close()

	v.logger.Debug("Data source validated",
		slog.String("path", path),
		slog.Int64("size", info.Size()))
	return nil
}

// CountSources counts the workbooks and CSV files directly under dir
func (v *FileValidator) CountSources(dir string) (int, error) {
	discovery := files.NewDiscovery("")

	workbooks, err := discovery.FindWorkbooks(dir)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}
	csvs, err := discovery.FindCSVFiles(dir)
	if err != nil {
		return 0, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}
	return len(workbooks) + len(csvs), nil
}

// ValidateOutputFile ensures the directory of path exists or can be created
// and is writable, and that path itself is not a directory
func (v *FileValidator) ValidateOutputFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	testFile.Close()
	os.Remove(testFile.Name())

	return nil
}
