package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git-commit-agent-go/internal/config"
)

func TestValidateFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   AppFlags
		wantErr error
	}{
		{name: "scan", flags: AppFlags{}},
		{name: "staged json", flags: AppFlags{Staged: true, JSON: true}},
		{name: "staged auto-commit", flags: AppFlags{Staged: true, AutoCommit: true}},
		{name: "auto-commit with json", flags: AppFlags{Staged: true, AutoCommit: true, JSON: true}, wantErr: errJSONWithAutoCommit},
		{name: "auto-commit without staged", flags: AppFlags{AutoCommit: true, Branch: "x"}, wantErr: errAutoCommitNeedsStage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFlags(tt.flags)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateFlags_ConfigWithNoConfig(t *testing.T) {
	assert.Error(t, validateFlags(AppFlags{NoConfig: true, ConfigPath: "x.yaml"}))
}

func TestLogLevel(t *testing.T) {
	t.Setenv(DebugEnv, "")

	assert.Equal(t, slog.LevelInfo, logLevel(AppFlags{}))
	assert.Equal(t, slog.LevelWarn, logLevel(AppFlags{JSON: true}))
	assert.Equal(t, slog.LevelDebug, logLevel(AppFlags{Debug: true, JSON: true}))

	t.Setenv(DebugEnv, "1")
	assert.Equal(t, slog.LevelDebug, logLevel(AppFlags{}))
}

func TestLoadConfig(t *testing.T) {
	root := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("max_retries: 5\nmodel: from-file\n"), 0o644))

	t.Run("file overlay and model flag", func(t *testing.T) {
		cfg, err := loadConfig(root, AppFlags{Model: "from-flag"})

		require.NoError(t, err)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, "from-flag", cfg.Model)
	})

	t.Run("no-config", func(t *testing.T) {
		cfg, err := loadConfig(root, AppFlags{NoConfig: true})

		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("temperature: 5\n"), 0o644))

		_, err := loadConfig(root, AppFlags{ConfigPath: path})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "temperature")
	})
}
