package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/permission"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		fromStdin bool
		tool      string
		input     string
	)

	cmd := &cobra.Command{
		Use:   "check [invocation...]",
		Short: "Classify invocations as allow, deny, ask or none",
		Example: `  permctl check "Bash(git status)" WebSearch
  permctl check --tool Bash --input '{"command":"rm -rf build"}'
  cat invocations.txt | permctl check --stdin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tool != "" {
				args = append(args, permission.FormatInvocation(tool, json.RawMessage(input)))
			}
			if len(args) == 0 && !fromStdin {
				return errors.New("no invocation given: pass arguments, --tool or --stdin")
			}

			rs, err := a.compile()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			for _, inv := range args {
				printDecision(out, inv, rs.Evaluate(inv))
			}
			if fromStdin {
				memo, err := permission.NewMemo(rs, a.cfg.Cache.MaxEntries)
				if err != nil {
					return err
				}
				defer memo.Close()
				return checkLines(cmd.InOrStdin(), out, memo)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read one invocation per line from stdin")
	cmd.Flags().StringVar(&tool, "tool", "", "Tool name; builds the invocation from --input")
	cmd.Flags().StringVar(&input, "input", "", "Tool input JSON used with --tool")
	return cmd
}

// checkLines classifies each non-blank line of r.
func checkLines(r io.Reader, w io.Writer, memo *permission.Memo) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		inv := strings.TrimSpace(scanner.Text())
		if inv == "" {
			continue
		}
		printDecision(w, inv, memo.Evaluate(inv))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}

func printDecision(w io.Writer, invocation string, d permission.Decision) {
	fmt.Fprintf(w, "%s\t%s\n", d, invocation)
}
