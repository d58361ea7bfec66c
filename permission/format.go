package permission

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ArgumentFields maps a tool name to the tool-input field that becomes the
// invocation argument. Tools not listed are serialized bare.
var ArgumentFields = map[string]string{
	"Bash":         "command",
	"Read":         "file_path",
	"Write":        "file_path",
	"Edit":         "file_path",
	"MultiEdit":    "file_path",
	"NotebookEdit": "notebook_path",
	"Glob":         "pattern",
	"Grep":         "pattern",
	"WebFetch":     "url",
	"WebSearch":    "query",
}

// FormatInvocation serializes a tool call into invocation form, e.g.
// ("Bash", {"command":"ls -la"}) becomes "Bash(ls -la)". A tool without a
// known argument field, or whose field is empty, is serialized bare.
func FormatInvocation(toolName string, input json.RawMessage) string {
	field, ok := ArgumentFields[toolName]
	if !ok || len(input) == 0 {
		return toolName
	}
	arg := gjson.GetBytes(input, field)
	if arg.Type != gjson.String {
		return toolName
	}
	value := strings.TrimSpace(arg.String())
	if value == "" {
		return toolName
	}
	return toolName + "(" + value + ")"
}
