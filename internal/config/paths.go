package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory holding the running binary, with
// symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return filepath.Dir(exe), nil
}

// ResolveDataPath locates the data source. Absolute paths are returned as
// is; relative paths are tried against the working directory first, then
// against the executable directory. When neither exists the working
// directory form is returned so the loader reports the missing file.
func ResolveDataPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	if FileExists(path) {
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}

	exeDir, err := ExecutableDir()
	if err == nil {
		candidate := filepath.Join(exeDir, path)
		if FileExists(candidate) {
			slog.Debug("Resolved data path from executable directory",
				slog.String("path", path),
				slog.String("resolved", candidate))
			return candidate
		}
	}

	return path
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
