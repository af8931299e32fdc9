package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "ETHICS_GEMINI_MODEL", "ETHICS_SAVE_DIR", "ETHICS_STORE",
		"ETHICS_CONTENT", "ETHICS_LOG_LEVEL", "ETHICS_LOG_FILE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ".saves", cfg.SaveDir)
	assert.Equal(t, StoreFile, cfg.Store)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.NarratorEnabled())
	assert.Equal(t, filepath.Join(".saves", "game.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(".saves", "sessions.db"), cfg.DatabasePath())
}

func TestParseOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("ETHICS_STORE", "SQLite")
	t.Setenv("ETHICS_SAVE_DIR", "/tmp/journey")
	t.Setenv("ETHICS_LOG_FILE", "/tmp/journey.log")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.NarratorEnabled())
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/journey.log", cfg.LogPath())
}

func TestParseRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHICS_STORE", "redis")
	_, err := Parse()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv("ETHICS_LOG_LEVEL", "verbose")
	_, err = Parse()
	assert.Error(t, err)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ETHICS_STORE=memory\n"), 0644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("ETHICS_STORE") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestConfigLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("ETHICS_LOG_LEVEL", "warn")
	cfg, err := Parse()
	require.NoError(t, err)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)

	cfg.LogLevel = "loud"
	_, err = cfg.Level()
	assert.Error(t, err)
}
