package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DataExtensions are the input formats the dashboard can load
var DataExtensions = []string{".csv", ".xlsx"}

// FileValidator checks input files and output directories before they are
// read or written
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

// IsTemporaryFile reports whether name is an editor lock file or a hidden
// partial write, such as "~$orders.xlsx" or ".orders.csv.123.tmp"
func IsTemporaryFile(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") || strings.HasSuffix(base, ".tmp")
}

// HasDataExtension reports whether name ends in .csv or .xlsx, ignoring case
func HasDataExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range DataExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ValidateFile checks that path exists, is a regular file and can be opened
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateDataFile checks that path is a readable, non-empty CSV or XLSX
// file that is not a temporary file
func (v *FileValidator) ValidateDataFile(path string) error {
	if !HasDataExtension(path) {
		return fmt.Errorf("file %s is not a data file (extension: %s)", path, filepath.Ext(path))
	}
	if IsTemporaryFile(path) {
		v.logger.Debug("Skipping temporary file", slog.String("file", path))
		return fmt.Errorf("file %s is a temporary file", path)
	}
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file %s is empty", path)
	}
	return nil
}

// ValidateOutputDirectory ensures dir exists, creating it if needed, and
// is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test.*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
