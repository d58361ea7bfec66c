package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/hook"
	"github.com/armatrix/claude-permissions-go/internal/audit"
	"github.com/armatrix/claude-permissions-go/internal/hookrunner"
	"github.com/armatrix/claude-permissions-go/permission"
)

func newHookCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Answer a PreToolUse hook read from stdin",
		Long: `Hook reads one hook input document from stdin, classifies the tool call
against the merged settings and writes the hook output document to stdout.
Calls no rule matches, and events other than PreToolUse, produce {} so the
host falls back to its own handling.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := hook.Decode(cmd.InOrStdin())
			if err != nil {
				return err
			}

			rs, err := a.compile()
			if err != nil {
				return err
			}

			runner, err := hookrunner.New([]hook.Matcher{
				{Event: hook.PreToolUse, Hooks: []hook.Func{hook.Permission(rs)}, Timeout: timeout},
			})
			if err != nil {
				return err
			}

			// Only PreToolUse is answered; other events get {}.
			var res *hook.Result
			if in.Event == hook.PreToolUse {
				res, err = runner.RunPreToolUse(cmd.Context(), in)
			} else {
				res, err = runner.Run(cmd.Context(), in)
			}
			a.recordDecision(in, res, err)
			if err != nil {
				return err
			}
			return res.Output(in.Event).Encode(cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-matcher hook timeout (0 = 30s)")
	return cmd
}

// recordDecision appends the hook outcome to the audit log when enabled.
// Audit failures are logged, never returned.
func (a *app) recordDecision(in *hook.Input, res *hook.Result, runErr error) {
	if !a.cfg.Audit.Enabled {
		return
	}

	ev := audit.Event{
		SessionID:  in.SessionID,
		HookEvent:  string(in.Event),
		Tool:       in.ToolName,
		Invocation: in.Invocation(),
		Decision:   permission.None.String(),
	}
	if res != nil {
		ev.Decision = res.Decision.String()
		ev.Pattern = res.Pattern
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}

	if err := audit.NewWriter(a.cfg.Audit.Path).Append(ev); err != nil {
		slog.Warn("audit append failed", "path", a.cfg.Audit.Path, "error", err)
	}
}
