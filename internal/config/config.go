package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/armatrix/claude-permissions-go/permission"
)

// DefaultGuardChars extends the library guard with newline, which chains
// shell commands the same way ";" does.
const DefaultGuardChars = permission.DefaultGuardChars + "\n"

// EnvPrefix prefixes environment overrides, e.g. PERMCTL_LOG_LEVEL.
const EnvPrefix = "PERMCTL"

// Config is permctl's own configuration, separate from the settings
// documents it evaluates.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Settings SettingsConfig `mapstructure:"settings"`
	Guard    GuardConfig    `mapstructure:"guard"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SettingsConfig selects the settings documents to load.
// Empty Paths means DefaultSettingsPaths(ProjectDir).
type SettingsConfig struct {
	Paths      []string `mapstructure:"paths"`
	ProjectDir string   `mapstructure:"project_dir"`
}

// GuardConfig shell-operator guard settings
type GuardConfig struct {
	Tools []string `mapstructure:"tools"`
	Chars string   `mapstructure:"chars"`
}

// CacheConfig evaluation memo settings
type CacheConfig struct {
	MaxEntries int64 `mapstructure:"max_entries"`
}

// AuditConfig decision audit log settings
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Guard: GuardConfig{
			Tools: append([]string(nil), permission.DefaultGuardedTools...),
			Chars: DefaultGuardChars,
		},
		Cache: CacheConfig{
			MaxEntries: permission.DefaultMemoEntries,
		},
	}
}

// Load reads config from path (JSON, YAML or TOML by extension), applies
// PERMCTL_* environment overrides and validates the result. An empty path
// yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, cfg)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("settings.paths", cfg.Settings.Paths)
	v.SetDefault("settings.project_dir", cfg.Settings.ProjectDir)
	v.SetDefault("guard.tools", cfg.Guard.Tools)
	v.SetDefault("guard.chars", cfg.Guard.Chars)
	v.SetDefault("cache.max_entries", cfg.Cache.MaxEntries)
	v.SetDefault("audit.enabled", cfg.Audit.Enabled)
	v.SetDefault("audit.path", cfg.Audit.Path)
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = permission.DefaultMemoEntries
	}

	if c.Guard.Chars == "" {
		return errors.New("guard.chars must not be empty")
	}
	for _, tool := range c.Guard.Tools {
		if strings.TrimSpace(tool) == "" {
			return errors.New("guard.tools must not contain empty names")
		}
	}

	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return errors.New("audit.path must be set when audit.enabled is true")
	}

	return nil
}

// PermissionGuard returns the guard described by the config.
func (c *Config) PermissionGuard() permission.Guard {
	return permission.Guard{
		IsGuardedTool: permission.GuardTools(c.Guard.Tools...),
		Chars:         c.Guard.Chars,
	}
}

// SettingsPaths returns the settings files to merge, in load order.
func (c *Config) SettingsPaths() []string {
	if len(c.Settings.Paths) > 0 {
		return c.Settings.Paths
	}
	dir := c.Settings.ProjectDir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	return DefaultSettingsPaths(dir)
}
