package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for configuration:
// - Defaults apply when no config file exists
// - A .rustyroad/refactor.yml overrides defaults
// - Environment variables override the config file
// - Invalid configuration aborts loading
// - Validate rejects each unusable value

func writeConfigFile(t *testing.T, rootDir, content string) {
	t.Helper()

	configDir := filepath.Join(rootDir, ".rustyroad")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "refactor.yml"), []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.SourceRoot)
	assert.Equal(t, "rs", cfg.ModuleExtension)
	assert.True(t, cfg.ConventionMode)
	assert.Empty(t, cfg.Ignore)
	assert.Empty(t, cfg.Analyzer.Binary)
	assert.Equal(t, 10, cfg.Analyzer.TimeoutSeconds)
}

func TestLoad_FromFile(t *testing.T) {
	rootDir := t.TempDir()
	writeConfigFile(t, rootDir, `
source_root: app
convention_mode: false
ignore:
  - "gen_*"
analyzer:
  binary: /usr/local/bin/rustyroad-analyzer
  timeout_seconds: 30
`)

	cfg, err := LoadConfigFromDir(rootDir)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.SourceRoot)
	assert.Equal(t, "rs", cfg.ModuleExtension, "unset keys keep defaults")
	assert.False(t, cfg.ConventionMode)
	assert.Equal(t, []string{"gen_*"}, cfg.Ignore)
	assert.Equal(t, "/usr/local/bin/rustyroad-analyzer", cfg.Analyzer.Binary)
	assert.Equal(t, 30, cfg.Analyzer.TimeoutSeconds)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	rootDir := t.TempDir()
	writeConfigFile(t, rootDir, "source_root: app\n")

	t.Setenv("RUSTY_REFACTOR_SOURCE_ROOT", "crates/web/src")
	t.Setenv("RUSTY_REFACTOR_ANALYZER_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfigFromDir(rootDir)
	require.NoError(t, err)

	assert.Equal(t, "crates/web/src", cfg.SourceRoot)
	assert.Equal(t, 5, cfg.Analyzer.TimeoutSeconds)
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	rootDir := t.TempDir()
	writeConfigFile(t, rootDir, "module_extension: .rs\n")

	_, err := LoadConfigFromDir(rootDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module_extension")
}

func TestLoad_MalformedYAML(t *testing.T) {
	rootDir := t.TempDir()
	writeConfigFile(t, rootDir, "source_root: [unclosed\n")

	_, err := LoadConfigFromDir(rootDir)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"empty source root", func(c *Config) { c.SourceRoot = "  " }, true},
		{"empty extension", func(c *Config) { c.ModuleExtension = "" }, true},
		{"extension with dot", func(c *Config) { c.ModuleExtension = ".rs" }, true},
		{"zero timeout", func(c *Config) { c.Analyzer.TimeoutSeconds = 0 }, true},
		{"negative timeout", func(c *Config) { c.Analyzer.TimeoutSeconds = -1 }, true},
		{"blank ignore pattern", func(c *Config) { c.Ignore = []string{"gen_*", " "} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.Error(t, Validate(nil))
}
