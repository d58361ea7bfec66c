package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatrix/claude-permissions-go/internal/config"
	"github.com/armatrix/claude-permissions-go/permission"
)

func TestGeneratePolicy(t *testing.T) {
	s := Generate[permission.Policy]()

	assert.Equal(t, "object", s.Type)
	assert.ElementsMatch(t, []string{"allow", "deny", "ask"}, s.Required)

	props := Properties[permission.Policy]()
	allow, ok := props["allow"].(map[string]any)
	require.True(t, ok, "allow should exist")
	assert.Equal(t, "array", allow["type"])
	assert.Equal(t, map[string]any{"type": "string"}, allow["items"])
	assert.Equal(t, "Patterns that run without confirmation", allow["description"])

	mode, ok := props["defaultMode"].(map[string]any)
	require.True(t, ok, "defaultMode should exist")
	assert.Equal(t, []any{"default", "acceptEdits", "bypassPermissions", "plan"}, mode["enum"])
}

func TestGenerateSettings(t *testing.T) {
	s := Generate[config.Settings]()
	assert.NotContains(t, s.Required, "permissions", "permissions is optional at the top level")

	props := Properties[config.Settings]()
	_, hasSources := props["Sources"]
	assert.False(t, hasSources, "json:\"-\" fields are skipped")

	perms, ok := props["permissions"].(map[string]any)
	require.True(t, ok, "permissions should exist")
	assert.Equal(t, "object", perms["type"])
	nested, ok := perms["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, nested, "deny")
	assert.Contains(t, nested, "guardedTools")
}

func TestGenerateJSON(t *testing.T) {
	data, err := GenerateJSON[config.Settings]()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, "object", m["type"])
	assert.NotNil(t, m["properties"])
	assert.NotContains(t, m, "$defs", "types are inlined")
}
