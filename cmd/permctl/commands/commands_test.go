package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSettings = `{
  "permissions": {
    "allow": ["Bash(ls *)", "Bash(git status)", "Bash(gh *)", "WebSearch"],
    "deny": ["Bash(rm *)", "Bash(gh secret *)"],
    "ask": ["Bash(git push *)", "WebFetch"]
  }
}`

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// settingsFile writes testSettings and returns the flags selecting it.
func settingsFile(t *testing.T) []string {
	t.Helper()
	return []string{"--settings", writeTemp(t, "settings.json", testSettings), "--log-level", "error"}
}
