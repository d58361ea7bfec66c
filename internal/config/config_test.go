package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatrix/claude-permissions-go/permission"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, []string{"Bash"}, cfg.Guard.Tools)
	assert.Equal(t, ";&|\n", cfg.Guard.Chars)
	assert.Equal(t, int64(permission.DefaultMemoEntries), cfg.Cache.MaxEntries)
	assert.False(t, cfg.Audit.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def := DefaultConfig()
	assert.Equal(t, def.Log, cfg.Log)
	assert.Equal(t, def.Guard, cfg.Guard)
	assert.Equal(t, def.Cache, cfg.Cache)
	assert.Equal(t, def.Audit, cfg.Audit)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "permctl.yaml", `
log:
  level: DEBUG
settings:
  paths: [a.json, b.json]
guard:
  tools: [Bash, Shell]
cache:
  max_entries: 50
audit:
  enabled: true
  path: /tmp/audit.jsonl
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level, "level is normalised")
	assert.Equal(t, []string{"a.json", "b.json"}, cfg.SettingsPaths())
	assert.Equal(t, []string{"Bash", "Shell"}, cfg.Guard.Tools)
	assert.Equal(t, DefaultGuardChars, cfg.Guard.Chars, "unset keys keep defaults")
	assert.Equal(t, int64(50), cfg.Cache.MaxEntries)
	assert.True(t, cfg.Audit.Enabled)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "permctl.json", `{"log": {"level": "warn", "file": "/tmp/permctl.log"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/permctl.log", cfg.Log.File)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PERMCTL_LOG_LEVEL", "error")
	t.Setenv("PERMCTL_GUARD_CHARS", ";")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, ";", cfg.Guard.Chars)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"negative cache", func(c *Config) { c.Cache.MaxEntries = -1 }, "cache.max_entries"},
		{"empty guard chars", func(c *Config) { c.Guard.Chars = "" }, "guard.chars"},
		{"empty guard tool", func(c *Config) { c.Guard.Tools = []string{"Bash", " "} }, "guard.tools"},
		{"audit without path", func(c *Config) { c.Audit.Enabled = true }, "audit.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_FillsZeroValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = ""
	cfg.Cache.MaxEntries = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, int64(permission.DefaultMemoEntries), cfg.Cache.MaxEntries)
}

func TestPermissionGuard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Guard.Tools = []string{"Shell"}
	cfg.Guard.Chars = "|"

	g := cfg.PermissionGuard()
	assert.True(t, g.Guarded("Shell"))
	assert.False(t, g.Guarded("Bash"))
	assert.True(t, g.Trips("Shell", "a | b"))
	assert.False(t, g.Trips("Shell", "a; b"))
}

func TestPermissionGuard_DefaultBlocksNewline(t *testing.T) {
	g := DefaultConfig().PermissionGuard()
	assert.True(t, g.Trips("Bash", "ls -la\nrm -rf /"))
	assert.True(t, g.Trips("Bash", "ls; rm -rf /"))
	assert.False(t, g.Trips("Bash", "ls -la"))
}

func TestSettingsPaths_Default(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Settings.ProjectDir = "/proj"
	paths := cfg.SettingsPaths()
	assert.Equal(t, filepath.Join("/proj", ".claude", "settings.local.json"), paths[len(paths)-1])
}
