package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/internal/watch"
	"github.com/armatrix/claude-permissions-go/permission"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate and lint settings files whenever they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := a.cfg.SettingsPaths()
			w, err := watch.New(paths, debounce)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			slog.Info("watching settings", "dirs", w.WatchedDirs())
			a.reload(out)
			return w.Run(cmd.Context(), func(changed []string) {
				slog.Info("settings changed", "files", changed)
				a.reload(out)
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a change is reported")
	return cmd
}

// reload compiles and lints the merged settings and prints a summary line.
func (a *app) reload(out io.Writer) {
	p, err := a.loadPolicy()
	if err != nil {
		fmt.Fprintf(out, "%s  error: %v\n", time.Now().Format(time.TimeOnly), err)
		return
	}
	rs, err := permission.Compile(p, permission.WithGuard(a.guardFor(p)))
	if err != nil {
		fmt.Fprintf(out, "%s  invalid permissions:\n%v\n", time.Now().Format(time.TimeOnly), err)
		return
	}

	findings := permission.Lint(p)
	fmt.Fprintf(out, "%s  ok: %d rules, mode %s, %d lint findings\n",
		time.Now().Format(time.TimeOnly), len(rs.Rules()), rs.Mode(), len(findings))
	for _, f := range findings {
		fmt.Fprintf(out, "  %s\n", f)
	}
}
