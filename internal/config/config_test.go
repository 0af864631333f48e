package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"GAMEBOOK_SOURCE", "GAMEBOOK_PROGRESS", "GAMEBOOK_API_BASE_URL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"GAMEBOOK_BOOKS_DIR", "GAMEBOOK_TOAST_DURATION", "GAMEBOOK_HTTP_TIMEOUT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceDir, cfg.Source)
	assert.Equal(t, "books", cfg.BooksDir)
	assert.Equal(t, ProgressFile, cfg.Progress)
	assert.Equal(t, 2500*time.Millisecond, cfg.ToastDuration)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GAMEBOOK_SOURCE", " HTTP ")
	t.Setenv("GAMEBOOK_PROGRESS", "sqlite")
	t.Setenv("GAMEBOOK_API_BASE_URL", "http://localhost:8080")
	t.Setenv("GAMEBOOK_API_PREFIX", "service")
	t.Setenv("GAMEBOOK_TOAST_DURATION", "1s")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceHTTP, cfg.Source)
	assert.Equal(t, ProgressSQLite, cfg.Progress)
	assert.Equal(t, "service", cfg.APIPrefix)
	assert.Equal(t, time.Second, cfg.ToastDuration)
}

func TestValidate(t *testing.T) {
	base := Config{Source: SourceDir, Progress: ProgressFile, ToastDuration: time.Second}
	require.NoError(t, base.Validate())

	tests := map[string]func(c *Config){
		"unknown source":        func(c *Config) { c.Source = "ftp" },
		"unknown progress":      func(c *Config) { c.Progress = "cloud" },
		"http without base url": func(c *Config) { c.Source = SourceHTTP },
		"http progress no url":  func(c *Config) { c.Progress = ProgressHTTP },
		"gemini without key":    func(c *Config) { c.Source = SourceGemini },
		"zero toast":            func(c *Config) { c.ToastDuration = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
