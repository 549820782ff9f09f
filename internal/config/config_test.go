package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func missingEnv(t *testing.T) []string {
	return []string{filepath.Join(t.TempDir(), "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{EnvFiles: missingEnv(t)})
	require.NoError(t, err)

	assert.Equal(t, "timesheet.db", cfg.Database.Path)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 64, cfg.PDF.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.PDF.CacheTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TIMESHEET_DATABASE_PATH", ":memory:")
	t.Setenv("TIMESHEET_SERVER_PORT", "9090")
	t.Setenv("TIMESHEET_PDF_CACHE_TTL", "30s")

	cfg, err := Load(Options{EnvFiles: missingEnv(t)})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.PDF.CacheTTL)
}

func TestLoadConfigFileAndDotenv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "timesheet.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: debug\npdf:\n  cache_size: 5\n"), 0o600))
	env := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(env, []byte("TIMESHEET_PDF_OUTPUT_DIR=/tmp/invoices\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TIMESHEET_PDF_OUTPUT_DIR") })

	cfg, err := Load(Options{ConfigFile: file, EnvFiles: []string{env}})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5, cfg.PDF.CacheSize)
	assert.Equal(t, "/tmp/invoices", cfg.PDF.OutputDir)

	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("TIMESHEET_LOG_LEVEL", "loud")
	_, err := Load(Options{EnvFiles: missingEnv(t)})
	assert.ErrorContains(t, err, "log.level")
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml"), EnvFiles: missingEnv(t)})
	assert.Error(t, err)
}
