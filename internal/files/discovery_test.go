package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestNewDiscovery(t *testing.T) {
	discovery := NewDiscovery("/test/base")

	assert.NotNil(t, discovery)
	assert.Equal(t, "/test/base", discovery.basePath)
}

func TestFindDataFiles(t *testing.T) {
	tests := []struct {
		name          string
		files         []string
		expectedCount int
	}{
		{
			name:          "csv and xlsx",
			files:         []string{"orders.csv", "orders.xlsx", "ORDERS2.CSV"},
			expectedCount: 3,
		},
		{
			name:          "mixed file types",
			files:         []string{"orders.csv", "legacy.xls", "notes.txt", "config.json"},
			expectedCount: 1,
		},
		{
			name:          "lock files and partial writes",
			files:         []string{"orders.xlsx", "~$orders.xlsx", ".orders.csv.42.tmp"},
			expectedCount: 1,
		},
		{
			name:          "empty directory",
			files:         nil,
			expectedCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			base := time.Now().Add(-time.Hour)
			for i, f := range tt.files {
				touch(t, dir, f, base.Add(time.Duration(i)*time.Minute))
			}
			require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0755))

			found, err := NewDiscovery("").FindDataFiles(dir)
			require.NoError(t, err)
			assert.Len(t, found, tt.expectedCount)

			for i := 1; i < len(found); i++ {
				assert.False(t, found[i].ModTime.Before(found[i-1].ModTime), "files must be oldest first")
			}
		})
	}
}

func TestLatestDataFile(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, dir, "january.csv", now.Add(-3*time.Hour))
	want := touch(t, dir, "february.xlsx", now.Add(-2*time.Hour))
	touch(t, dir, "generated_orders.csv", now.Add(-time.Hour))
	touch(t, dir, "readme.txt", now)

	got, err := NewDiscovery("").LatestDataFile(dir, "generated_orders.csv")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLatestDataFileRelativeToBase(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "data"), 0755))
	want := touch(t, filepath.Join(base, "data"), "orders.csv", time.Now())

	got, err := NewDiscovery(base).LatestDataFile("data")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLatestDataFileNone(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "generated_orders.csv", time.Now())

	_, err := NewDiscovery("").LatestDataFile(dir, "generated_orders.csv")
	assert.ErrorIs(t, err, ErrNoDataFiles)
}

func TestLatestDataFileMissingDirectory(t *testing.T) {
	_, err := NewDiscovery("").LatestDataFile(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetLatestFile(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		files    []FileInfo
		expected string
		found    bool
	}{
		{
			name:  "empty list",
			files: nil,
		},
		{
			name:     "single file",
			files:    []FileInfo{{Name: "a.csv", ModTime: now}},
			expected: "a.csv",
			found:    true,
		},
		{
			name: "newest wins",
			files: []FileInfo{
				{Name: "old.csv", ModTime: now.Add(-time.Hour)},
				{Name: "new.csv", ModTime: now},
				{Name: "mid.csv", ModTime: now.Add(-time.Minute)},
			},
			expected: "new.csv",
			found:    true,
		},
		{
			name: "equal times ordered by name",
			files: []FileInfo{
				{Name: "b.csv", ModTime: now},
				{Name: "a.csv", ModTime: now},
			},
			expected: "b.csv",
			found:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			latest, ok := GetLatestFile(tt.files)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, latest.Name)
		})
	}
}
