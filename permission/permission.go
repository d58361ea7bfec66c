package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Decision represents the outcome of a permission check.
type Decision int

const (
	None  Decision = iota // No rule matched; the caller applies a default
	Allow                 // Tool execution is permitted
	Deny                  // Tool execution is blocked
	Ask                   // User should be prompted for confirmation
)

// String returns the settings-file spelling of the decision.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Ask:
		return "ask"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Decision) UnmarshalText(text []byte) error {
	parsed, err := ParseDecision(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDecision converts "allow", "deny", "ask" or "none" into a Decision.
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	case "ask":
		return Ask, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("permission: unknown decision %q", s)
	}
}

// Mode controls the default permission behavior for unmatched invocations.
type Mode int

const (
	ModeDefault           Mode = iota // read=allow, write/bash=ask
	ModeAcceptEdits                   // read+write=allow, bash=ask
	ModeBypassPermissions             // all=allow
	ModePlan                          // read=allow, write+bash=deny
)

// String returns the settings-file spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAcceptEdits:
		return "acceptEdits"
	case ModeBypassPermissions:
		return "bypassPermissions"
	case ModePlan:
		return "plan"
	default:
		return "default"
	}
}

// ParseMode converts a permissions.defaultMode value into a Mode.
// An empty string yields ModeDefault.
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(s) {
	case "", "default":
		return ModeDefault, nil
	case "acceptEdits":
		return ModeAcceptEdits, nil
	case "bypassPermissions":
		return ModeBypassPermissions, nil
	case "plan":
		return ModePlan, nil
	default:
		return ModeDefault, fmt.Errorf("permission: unknown mode %q", s)
	}
}

// Func is a user-provided permission callback.
// It receives the tool name and input, returns a Decision.
type Func func(ctx context.Context, toolName string, input json.RawMessage) (Decision, error)

// ReadOnlyTools lists tools classified as read-only.
// These are always allowed in Default and AcceptEdits modes.
var ReadOnlyTools = map[string]bool{
	"Read":      true,
	"Glob":      true,
	"Grep":      true,
	"WebFetch":  true,
	"WebSearch": true,
}

// WriteTools lists tools classified as write operations.
// Allowed in AcceptEdits and BypassPermissions modes.
var WriteTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"NotebookEdit": true,
}

// Checker evaluates whether a tool can be used.
// Rules are consulted first; an unmatched invocation falls through to the
// callback when one is set, otherwise to the mode table.
type Checker struct {
	mode       Mode
	rules      *RuleSet
	canUseTool Func // Optional user-provided callback, overrides mode-based check
}

// NewChecker creates a permission checker with the given mode.
func NewChecker(mode Mode, canUseTool Func) *Checker {
	return &Checker{mode: mode, canUseTool: canUseTool}
}

// NewCheckerWithRules creates a checker that consults rules before the
// callback and mode. A nil rule set behaves like NewChecker.
func NewCheckerWithRules(mode Mode, rules *RuleSet, canUseTool Func) *Checker {
	return &Checker{mode: mode, rules: rules, canUseTool: canUseTool}
}

// Check evaluates whether the named tool with the given input is allowed.
func (c *Checker) Check(ctx context.Context, toolName string, input json.RawMessage) (Decision, error) {
	if c.rules != nil {
		if d := c.rules.Evaluate(FormatInvocation(toolName, input)); d != None {
			return d, nil
		}
	}

	if c.canUseTool != nil {
		return c.canUseTool(ctx, toolName, input)
	}

	switch c.mode {
	case ModeBypassPermissions:
		return Allow, nil
	case ModePlan:
		if ReadOnlyTools[toolName] {
			return Allow, nil
		}
		return Deny, nil
	case ModeAcceptEdits:
		if ReadOnlyTools[toolName] || WriteTools[toolName] {
			return Allow, nil
		}
		return Ask, nil
	default: // ModeDefault
		if ReadOnlyTools[toolName] {
			return Allow, nil
		}
		return Ask, nil
	}
}

// Mode returns the current permission mode.
func (c *Checker) Mode() Mode {
	return c.mode
}

// SetMode updates the permission mode.
func (c *Checker) SetMode(mode Mode) {
	c.mode = mode
}
