package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justas-b/ecommerce-dashboard/internal/config"
	logtest "github.com/justas-b/ecommerce-dashboard/internal/shared/testutil"
)

type fakeHub int

func (h fakeHub) ClientCount() int { return int(h) }

func TestHealthCheck(t *testing.T) {
	hs := NewHealthService("1.2.3", config.PathsConfig{DataDir: t.TempDir()}, fixtureDataset(), nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name     string
		dataDir  string
		loaded   bool
		expected string
	}{
		{"ready", "", true, "ready"},
		{"no dataset", "", false, "not_ready"},
		{"missing data dir", "missing", true, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.dataDir != "" {
				dir = filepath.Join(dir, tt.dataDir)
			}
			logger, handler := logtest.NewTestLogger(t)

			hs := NewHealthService("dev", config.PathsConfig{DataDir: dir}, nil, logger, WithClientCounter(fakeHub(3)))
			if tt.loaded {
				hs = NewHealthService("dev", config.PathsConfig{DataDir: dir}, fixtureDataset(), logger, WithClientCounter(fakeHub(3)))
			}

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.expected, status.Status)
			assert.Equal(t, tt.expected == "ready", hs.Ready(context.Background()))
			require.Contains(t, status.Services, "websocket")
			assert.Equal(t, "3 clients connected", status.Services["websocket"].(ServiceHealth).Message)
			if tt.expected != "ready" {
				logtest.AssertLogContains(t, handler, slog.LevelWarn, "Readiness check failed")
			}
		})
	}
}

func TestReadinessReportsDataset(t *testing.T) {
	hs := NewHealthService("dev", config.PathsConfig{DataDir: t.TempDir()}, fixtureDataset(), nil)
	status := hs.ReadinessCheck(context.Background())

	dataset := status.Services["dataset"].(ServiceHealth)
	assert.Equal(t, "4 orders from fixture.csv", dataset.Message)
	assert.Equal(t, "WebSocket channel disabled", status.Services["websocket"].(ServiceHealth).Message)
}

func TestLivenessAndVersion(t *testing.T) {
	hs := NewHealthService("1.0.0", config.PathsConfig{}, nil, nil, WithBuildInfo("2026-01-01T00:00:00Z", "abc123"))

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "abc123", v["git_commit"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
}
