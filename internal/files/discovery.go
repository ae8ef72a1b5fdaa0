package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/justas-b/ecommerce-dashboard/internal/validation"
)

// ErrNoDataFiles is returned when a directory holds no readable data file
var ErrNoDataFiles = errors.New("no data files found")

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance. Relative directories
// passed to its methods are resolved against basePath.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" || dir == d.basePath {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindFiles lists the regular files in dir whose extension is one of exts,
// compared case-insensitively, oldest first
func (d *Discovery) FindFiles(dir string, exts ...string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !hasExtension(entry.Name(), exts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})
	return files, nil
}

// FindDataFiles lists the CSV and XLSX files in dir, oldest first. Editor
// lock files and partial writes are skipped.
func (d *Discovery) FindDataFiles(dir string) ([]FileInfo, error) {
	found, err := d.FindFiles(dir, validation.DataExtensions...)
	if err != nil {
		return nil, err
	}
	files := found[:0]
	for _, f := range found {
		if !validation.IsTemporaryFile(f.Name) {
			files = append(files, f)
		}
	}
	return files, nil
}

// LatestDataFile returns the path of the most recently modified data file
// in dir. Files named in exclude are skipped. ErrNoDataFiles is returned
// when nothing qualifies.
func (d *Discovery) LatestDataFile(dir string, exclude ...string) (string, error) {
	found, err := d.FindDataFiles(dir)
	if err != nil {
		return "", err
	}

	candidates := found[:0]
	for _, f := range found {
		if !contains(exclude, f.Name) {
			candidates = append(candidates, f)
		}
	}

	latest, ok := GetLatestFile(candidates)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoDataFiles, d.resolve(dir))
	}
	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list. Files
// with the same modification time are ordered by name, the last one wins.
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) ||
			(file.ModTime.Equal(latest.ModTime) && file.Name > latest.Name) {
			latest = file
		}
	}
	return latest, true
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
