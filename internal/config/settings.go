// Package config loads permctl's own configuration and the settings
// documents that carry permission policies.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/armatrix/claude-permissions-go/permission"
)

var (
	ErrNoPermissions = errors.New("settings: missing \"permissions\" object")
	ErrMissingList   = errors.New("settings: missing permission list")
	ErrNotList       = errors.New("settings: permission list is not an array")
	ErrNotString     = errors.New("settings: permission entry is not a string")
)

// listNames are the permission lists a settings document may carry.
var listNames = []string{"allow", "deny", "ask"}

// Settings is a settings document reduced to the parts permctl reads.
type Settings struct {
	Permissions *permission.Policy `json:"permissions,omitempty" yaml:"permissions,omitempty"`

	// Sources lists the files merged into this value, in load order.
	Sources []string `json:"-" yaml:"-"`
}

// Policy returns the merged policy, or an empty one when no document had
// a permissions block.
func (s *Settings) Policy() permission.Policy {
	if s == nil || s.Permissions == nil {
		return permission.Policy{}
	}
	return *s.Permissions
}

// LoadSettings merges settings from multiple files.
// Later paths override earlier ones (user < project < local): pattern
// lists are concatenated without duplicates, defaultMode is replaced and
// guardedTools are unioned. Missing files are skipped; a file that exists
// but does not parse is an error.
func LoadSettings(paths ...string) (*Settings, error) {
	merged := &Settings{}

	for _, path := range paths {
		s, err := loadSettingsFile(path, false)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("settings file not found", "path", path)
			continue
		}
		if err != nil {
			return nil, err
		}
		mergeSettings(merged, s)
		merged.Sources = append(merged.Sources, path)
	}

	return merged, nil
}

// LoadStrict reads a single settings file and additionally requires the
// permissions object and all three lists to be present.
func LoadStrict(path string) (*Settings, error) {
	return loadSettingsFile(path, true)
}

// DefaultSettingsPaths returns the standard settings file search paths.
func DefaultSettingsPaths(projectDir string) []string {
	home, _ := os.UserHomeDir()
	var paths []string

	// User-level settings
	if home != "" {
		paths = append(paths, filepath.Join(home, ".claude", "settings.json"))
	}

	// Project-level settings, shared then local
	if projectDir != "" {
		paths = append(paths,
			filepath.Join(projectDir, ".claude", "settings.json"),
			filepath.Join(projectDir, ".claude", "settings.local.json"),
		)
	}

	return paths
}

// IsYAML reports whether path names a YAML document.
func IsYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func loadSettingsFile(path string, strict bool) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if IsYAML(path) {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	s, err := ParseSettings(data, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseSettings decodes a JSON settings document. The permissions lists
// must be arrays of strings; in strict mode the permissions object and all
// three lists are required.
func ParseSettings(data []byte, strict bool) (*Settings, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("settings: invalid JSON: %w", err)
	}

	raw, ok := doc["permissions"]
	if !ok {
		if strict {
			return nil, ErrNoPermissions
		}
		return &Settings{}, nil
	}

	var perms map[string]json.RawMessage
	if err := json.Unmarshal(raw, &perms); err != nil || perms == nil {
		return nil, ErrNoPermissions
	}

	var errs []error
	for _, name := range listNames {
		if _, ok := perms[name]; !ok && strict {
			errs = append(errs, fmt.Errorf("%w: permissions.%s", ErrMissingList, name))
			continue
		}
		if err := checkList(name, perms[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	var policy permission.Policy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("settings: decode permissions: %w", err)
	}
	return &Settings{Permissions: &policy}, nil
}

func checkList(name string, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return fmt.Errorf("%w: permissions.%s", ErrNotList, name)
	}
	for i, item := range items {
		if _, ok := item.(string); !ok {
			return fmt.Errorf("%w: permissions.%s[%d] is %T", ErrNotString, name, i, item)
		}
	}
	return nil
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share one
// validation path.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("settings: invalid YAML: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("settings: convert YAML: %w", err)
	}
	return out, nil
}

func mergeSettings(dst, src *Settings) {
	if src.Permissions == nil {
		return
	}
	if dst.Permissions == nil {
		dst.Permissions = &permission.Policy{}
	}
	d, s := dst.Permissions, src.Permissions

	d.Allow = appendUnique(d.Allow, s.Allow...)
	d.Deny = appendUnique(d.Deny, s.Deny...)
	d.Ask = appendUnique(d.Ask, s.Ask...)
	d.GuardedTools = appendUnique(d.GuardedTools, s.GuardedTools...)
	if s.DefaultMode != "" {
		d.DefaultMode = s.DefaultMode
	}
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		if !slices.Contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}
