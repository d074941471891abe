package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "auto-generated")
	assert.Contains(t, string(data), "min_header_columns: 3")

	// the written file loads back to the same settings
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9000
analysis:
  patterns_file: patterns.yaml
  top_n: 5
advanced:
  log_format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, "json", cfg.Advanced.LogFormat)
	assert.Equal(t, filepath.Join(dir, "patterns.yaml"), cfg.Analysis.PatternsFile)

	// keys absent from the file keep their defaults
	assert.Equal(t, 3, cfg.Analysis.MinHeaderColumns)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddr())
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes())
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("PORT", "7001")
	t.Setenv("MTBF_LOG_LEVEL", "debug")
	t.Setenv("MTBF_PATTERNS_FILE", "/etc/mtbf/patterns.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Advanced.LogLevel)
	assert.Equal(t, "/etc/mtbf/patterns.yaml", cfg.Analysis.PatternsFile)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"bad min columns", "analysis:\n  min_header_columns: 0\n"},
		{"bad log format", "advanced:\n  log_format: xml\n"},
		{"negative rate", "server:\n  rate_limit_per_second: -1\n"},
		{"zero upload limit", "processing:\n  max_upload_mb: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestCleanupIntervalDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Processing.CleanupIntervalMinutes = 0
	assert.Equal(t, 5*time.Minute, cfg.CleanupInterval())
}
