package commands

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armatrix/claude-permissions-go/internal/audit"
)

func TestHook_Deny(t *testing.T) {
	stdin := `{"session_id":"s1","hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)

	assert.JSONEq(t, `{"hookSpecificOutput":{
		"hookEventName":"PreToolUse",
		"permissionDecision":"deny",
		"permissionDecisionReason":"Bash(rm -rf /) matched permissions.deny rule \"Bash(rm *)\""
	}}`, out)
}

func TestHook_NoMatchDefersToHost(t *testing.T) {
	stdin := `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls; rm -rf /"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out)
}

func TestHook_PostToolUseIgnored(t *testing.T) {
	stdin := `{"hook_event_name":"PostToolUse","tool_name":"Bash","tool_input":{"command":"rm x"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out)
}

func TestHook_BadInput(t *testing.T) {
	_, err := execute(t, `{"tool_input":{}}`, append([]string{"hook"}, settingsFile(t)...)...)
	assert.Error(t, err)
}

func TestHook_WritesAudit(t *testing.T) {
	auditPath := filepath.Join(t.TempDir(), "audit.jsonl")
	cfgPath := writeTemp(t, "permctl.yaml", "audit:\n  enabled: true\n  path: "+auditPath+"\n")

	stdin := `{"session_id":"s1","hook_event_name":"PreToolUse","tool_name":"WebFetch","tool_input":{"url":"https://example.com"}}`
	args := append([]string{"hook", "--config", cfgPath}, settingsFile(t)...)
	out, err := execute(t, stdin, args...)
	require.NoError(t, err)
	assert.Contains(t, out, `"permissionDecision":"ask"`)

	f, err := os.Open(auditPath)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var ev audit.Event
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
	assert.Equal(t, audit.TypeDecision, ev.Type)
	assert.Equal(t, "s1", ev.SessionID)
	assert.Equal(t, "WebFetch(https://example.com)", ev.Invocation)
	assert.Equal(t, "ask", ev.Decision)
	assert.Equal(t, "WebFetch", ev.Pattern)
	assert.NotEmpty(t, ev.RequestID)
	assert.False(t, scanner.Scan(), "one event per hook call")
}

func TestHook_NewlineChainedCommand(t *testing.T) {
	stdin := `{"hook_event_name":"PreToolUse","tool_name":"Bash","tool_input":{"command":"ls -la\nrm -rf /"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out, "allow prefix must not cover a second line")
}

func TestHook_MissingEventIsPreToolUse(t *testing.T) {
	stdin := `{"tool_name":"Bash","tool_input":{"command":"ls -la"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, `"hookEventName":"PreToolUse"`)
	assert.Contains(t, out, `"permissionDecision":"allow"`)
}

func TestHook_PermissionRequestNotAnswered(t *testing.T) {
	stdin := `{"hook_event_name":"PermissionRequest","tool_name":"Bash","tool_input":{"command":"rm -rf /"}}`
	out, err := execute(t, stdin, append([]string{"hook"}, settingsFile(t)...)...)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, out)
}
