package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/internal/config"
	"github.com/armatrix/claude-permissions-go/permission"
)

func newLintCmd(a *app) *cobra.Command {
	var (
		globs  []string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "lint [file...]",
		Short: "Report suspicious permission rules",
		Long: `Lint reports duplicate, conflicting, shadowed and unreachable patterns,
and allow entries that grant arbitrary shell execution. Without arguments it
lints the merged policy of the configured settings files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var (
				findings []permission.Finding
				invalid  int
			)
			lint := func(source string, p permission.Policy) {
				if err := p.Validate(); err != nil {
					invalid++
					printInvalid(out, source, err)
					return
				}
				findings = append(findings, printFindings(out, source, permission.Lint(p))...)
			}

			if len(args) == 0 && len(globs) == 0 {
				p, err := a.loadPolicy()
				if err != nil {
					return err
				}
				lint("merged settings", p)
			} else {
				files, err := resolveFiles(args, globs, nil)
				if err != nil {
					return err
				}
				for _, path := range files {
					s, err := config.LoadStrict(path)
					if err != nil {
						return err
					}
					lint(path, s.Policy())
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d settings sources have invalid patterns", invalid)
			}
			if permission.HasErrors(findings) {
				return errors.New("lint found errors")
			}
			if strict && len(findings) > 0 {
				return fmt.Errorf("lint found %d warnings", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&globs, "glob", nil, "Glob of settings files to lint, ** allowed (repeatable)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors")
	return cmd
}

// printInvalid reports validation errors instead of lint findings, which
// would be meaningless for malformed patterns.
func printInvalid(w io.Writer, source string, err error) {
	fmt.Fprintf(w, "%s: invalid permissions\n", source)
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

func printFindings(w io.Writer, source string, findings []permission.Finding) []permission.Finding {
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s: no findings\n", source)
		return nil
	}
	fmt.Fprintf(w, "%s:\n", source)
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return findings
}
