package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory containing the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// EnsureDirectories creates the data and logs directories if they don't exist
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DataFilePath returns the path of a file inside the data directory
func (c *Config) DataFilePath(filename string) string {
	return filepath.Join(c.Paths.DataDir, filename)
}

// GeneratedFilePath returns where synthetic data is persisted
func (c *Config) GeneratedFilePath() string {
	return c.DataFilePath(c.Data.GeneratedFile)
}

// LogPathResolution logs the resolved paths for debugging
func (c *Config) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	wd, _ := os.Getwd()
	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", c.Paths.BaseDir),
			slog.String("data", c.Paths.DataDir),
			slog.String("logs", c.Paths.LogsDir),
			slog.String("working_dir", wd),
		),
		slog.Group("files",
			slog.String("dataset_config", c.Paths.DatasetConfig),
			slog.Bool("dataset_config_exists", FileExists(c.Paths.DatasetConfig)),
			slog.String("log_file", c.Logging.FilePath),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
