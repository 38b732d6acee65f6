package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, StorageInMemory, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.SeedTargets)
	assert.Equal(t, 25*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, filepath.Join("data", "kpis.json"), cfg.KpiPath())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "addr: \":9090\"\nstorage: sqlite\ndb_path: /tmp/dash.db\nlog_level: debug\nseed_targets: false\nshutdown_timeout: 5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/dash.db", cfg.DBPath)
	assert.False(t, cfg.SeedTargets)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)

	// environment wins over the file
	t.Setenv("DASHBOARD_ADDR", ":7070")
	t.Setenv("DASHBOARD_KPI_FILE", "/srv/fixtures/kpis.json")
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "/srv/fixtures/kpis.json", cfg.KpiPath(), "Absolute kpi_file should be used as is")
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DASHBOARD_STORAGE", "postgres")
	_, err := Load(t.TempDir())
	assert.Error(t, err, "Unknown storage type should be rejected")
	assert.Contains(t, err.Error(), "unknown storage type")

	t.Setenv("DASHBOARD_STORAGE", StorageInMemory)
	t.Setenv("DASHBOARD_LOG_LEVEL", "chatty")
	_, err = Load(t.TempDir())
	assert.Error(t, err, "Unknown log level should be rejected")
}
