// Package hook adapts the permission engine to tool-use hooks.
//
// A hook process receives one JSON [Input] on stdin describing the tool
// call about to run, and answers with an [Output] carrying a permission
// decision. [Permission] builds the [Func] that classifies the call; a
// [Matcher] binds hook functions to an [Event] and an optional tool-name
// regex pattern.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/armatrix/claude-permissions-go/permission"
)

// Event identifies when a hook fires.
type Event string

const (
	PreToolUse        Event = "PreToolUse"
	PostToolUse       Event = "PostToolUse"
	PermissionRequest Event = "PermissionRequest"
)

// ErrNoToolName is returned by Decode for input without a tool_name.
var ErrNoToolName = errors.New("hook: input has no tool_name")

// Input is the JSON document a hook receives.
type Input struct {
	SessionID      string          `json:"session_id,omitempty"`
	TranscriptPath string          `json:"transcript_path,omitempty"`
	Cwd            string          `json:"cwd,omitempty"`
	Event          Event           `json:"hook_event_name"`
	ToolName       string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"tool_input,omitempty"`
}

// Invocation serializes the tool call for the permission engine.
func (in *Input) Invocation() string {
	return permission.FormatInvocation(in.ToolName, in.ToolInput)
}

// Decode reads one Input from r. A missing event defaults to PreToolUse.
func Decode(r io.Reader) (*Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("hook: decode input: %w", err)
	}
	if in.ToolName == "" {
		return nil, ErrNoToolName
	}
	if in.Event == "" {
		in.Event = PreToolUse
	}
	return &in, nil
}

// Result is returned by hook functions. A nil Result or a None decision
// means "no opinion".
type Result struct {
	Decision   permission.Decision
	Reason     string
	Invocation string
	Pattern    string // the rule that decided, if any
}

// Blocks reports whether the result stops the tool call.
func (r *Result) Blocks() bool {
	return r != nil && r.Decision == permission.Deny
}

// SpecificOutput is the event-specific part of Output.
type SpecificOutput struct {
	HookEventName            Event  `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason,omitempty"`
}

// Output is the JSON document a hook writes to stdout.
type Output struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// Output renders r for event. A result without a decision renders as an
// empty document, which leaves the decision to the host.
func (r *Result) Output(event Event) Output {
	if r == nil || r.Decision == permission.None {
		return Output{}
	}
	return Output{HookSpecificOutput: &SpecificOutput{
		HookEventName:            event,
		PermissionDecision:       r.Decision.String(),
		PermissionDecisionReason: r.Reason,
	}}
}

// Encode writes out as a single JSON line.
func (o Output) Encode(w io.Writer) error {
	return json.NewEncoder(w).Encode(o)
}

// Func is the signature for hook callbacks.
type Func func(ctx context.Context, input *Input) (*Result, error)

// Matcher defines which events a set of hooks should fire for.
type Matcher struct {
	Event   Event         // Which event to match.
	Pattern string        // Regex pattern for tool name (empty = match all).
	Hooks   []Func        // Functions to call (in order).
	Timeout time.Duration // Max time for all hooks in this matcher (0 = 30s default).
}

// Explainer classifies an invocation and names the deciding rule.
// *permission.RuleSet and *permission.Memo implement it.
type Explainer interface {
	Explain(invocation string) permission.Match
}

// Permission returns a hook that classifies each tool call with e.
func Permission(e Explainer) Func {
	return func(ctx context.Context, input *Input) (*Result, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inv := input.Invocation()
		m := e.Explain(inv)
		res := &Result{Decision: m.Decision, Invocation: inv, Pattern: m.Pattern()}
		if m.Decision != permission.None {
			res.Reason = fmt.Sprintf("%s matched permissions.%s rule %q", inv, m.Decision, m.Pattern())
		}
		return res, nil
	}
}
