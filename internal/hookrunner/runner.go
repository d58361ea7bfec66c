// Package hookrunner provides the internal runner that executes hook matchers.
package hookrunner

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	pubhook "github.com/armatrix/claude-permissions-go/hook"
	"github.com/armatrix/claude-permissions-go/permission"
)

const defaultTimeout = 30 * time.Second

// Runner executes hooks matched by event and tool name.
type Runner struct {
	matchers []matcherEntry
}

type matcherEntry struct {
	event   pubhook.Event
	pattern *regexp.Regexp // nil = match all tools
	hooks   []pubhook.Func
	timeout time.Duration
}

// New creates a Runner from public Matcher definitions.
// Returns an error if any regex pattern is invalid.
func New(matchers []pubhook.Matcher) (*Runner, error) {
	entries := make([]matcherEntry, 0, len(matchers))
	for i, m := range matchers {
		entry := matcherEntry{
			event:   m.Event,
			hooks:   m.Hooks,
			timeout: m.Timeout,
		}
		if entry.timeout == 0 {
			entry.timeout = defaultTimeout
		}
		if m.Pattern != "" {
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				return nil, fmt.Errorf("matcher[%d]: invalid pattern %q: %w", i, m.Pattern, err)
			}
			entry.pattern = re
		}
		entries = append(entries, entry)
	}
	return &Runner{matchers: entries}, nil
}

// Run runs every matcher registered for input.Event whose pattern matches
// the tool name, and combines their results: the strictest decision wins
// (deny over ask over allow) and the first deny stops the run.
// Returns nil when no hook expressed a decision.
func (r *Runner) Run(ctx context.Context, input *pubhook.Input) (*pubhook.Result, error) {
	var combined *pubhook.Result

	for _, entry := range r.matchers {
		if entry.event != input.Event {
			continue
		}
		if entry.pattern != nil && !entry.pattern.MatchString(input.ToolName) {
			continue
		}

		tctx, cancel := context.WithTimeout(ctx, entry.timeout)
		res, err := runHooks(tctx, entry.hooks, input)
		cancel()

		if err != nil {
			return combined, err
		}
		combined = stricter(combined, res)
		if combined.Blocks() {
			break
		}
	}

	if combined != nil {
		slog.Debug("hooks decided",
			"event", input.Event,
			"tool", input.ToolName,
			"decision", combined.Decision,
			"pattern", combined.Pattern,
		)
	}
	return combined, nil
}

// RunPreToolUse runs the PreToolUse hooks for input regardless of the
// event name it carries.
func (r *Runner) RunPreToolUse(ctx context.Context, input *pubhook.Input) (*pubhook.Result, error) {
	in := *input
	in.Event = pubhook.PreToolUse
	return r.Run(ctx, &in)
}

// runHooks executes a slice of hook functions in order.
// It stops early if a hook denies or the context is cancelled.
func runHooks(ctx context.Context, hooks []pubhook.Func, input *pubhook.Input) (*pubhook.Result, error) {
	var combined *pubhook.Result

	for _, fn := range hooks {
		if err := ctx.Err(); err != nil {
			return combined, err
		}

		res, err := fn(ctx, input)
		if err != nil {
			return combined, err
		}
		combined = stricter(combined, res)
		if combined.Blocks() {
			return combined, nil
		}
	}

	return combined, nil
}

// rank orders decisions by strictness.
var rank = map[permission.Decision]int{
	permission.None:  0,
	permission.Allow: 1,
	permission.Ask:   2,
	permission.Deny:  3,
}

// stricter returns whichever of cur and next carries the stricter decision.
// On a tie the earlier result is kept.
func stricter(cur, next *pubhook.Result) *pubhook.Result {
	if next == nil || next.Decision == permission.None {
		return cur
	}
	if cur == nil || rank[next.Decision] > rank[cur.Decision] {
		return next
	}
	return cur
}
