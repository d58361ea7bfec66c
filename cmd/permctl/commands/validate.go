package commands

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/armatrix/claude-permissions-go/internal/config"
	"github.com/armatrix/claude-permissions-go/permission"
)

// fileResult is the outcome of validating one settings file.
type fileResult struct {
	path   string
	policy permission.Policy
	err    error
}

func newValidateCmd(a *app) *cobra.Command {
	var globs []string

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check settings files for malformed permission patterns",
		Long: `Validate checks that each settings file has a permissions object with
allow, deny and ask lists of strings, and that every pattern is well formed.
Without arguments it validates the configured settings files that exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := resolveFiles(args, globs, a.cfg.SettingsPaths())
			if err != nil {
				return err
			}

			results, err := validateFiles(cmd, a, files)
			if err != nil {
				return err
			}

			failed := printResults(cmd.OutOrStdout(), results)
			if failed > 0 {
				return fmt.Errorf("%d of %d settings files invalid", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&globs, "glob", nil, "Glob of settings files to validate, ** allowed (repeatable)")
	return cmd
}

// validateFiles checks files concurrently; results keep the input order.
func validateFiles(cmd *cobra.Command, a *app, files []string) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = validateFile(a, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateFile(a *app, path string) fileResult {
	res := fileResult{path: path}

	s, err := config.LoadStrict(path)
	if err != nil {
		res.err = err
		return res
	}
	res.policy = s.Policy()

	if _, err := permission.Compile(res.policy, permission.WithGuard(a.guardFor(res.policy))); err != nil {
		res.err = err
	}
	slog.Debug("validated settings", "path", path, "ok", res.err == nil)
	return res
}

func printResults(w io.Writer, results []fileResult) int {
	failed := 0
	for _, r := range results {
		if r.err == nil {
			fmt.Fprintf(w, "ok    %s (%d allow, %d deny, %d ask)\n",
				r.path, len(r.policy.Allow), len(r.policy.Deny), len(r.policy.Ask))
			continue
		}
		failed++
		fmt.Fprintf(w, "FAIL  %s\n", r.path)
		for _, line := range strings.Split(r.err.Error(), "\n") {
			fmt.Fprintf(w, "      %s\n", line)
		}
	}
	return failed
}
