package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armatrix/claude-permissions-go/permission"
)

// explanation is the --json form of explain's output.
type explanation struct {
	Invocation string              `json:"invocation"`
	Tool       string              `json:"tool"`
	Argument   *string             `json:"argument,omitempty"`
	Decision   permission.Decision `json:"decision"`
	List       string              `json:"list,omitempty"`
	Index      *int                `json:"index,omitempty"`
	Pattern    string              `json:"pattern,omitempty"`
	Guarded    bool                `json:"guarded"`
	GuardTrips bool                `json:"guard_trips"`
}

func newExplainCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain <invocation>",
		Short: "Show which rule decides an invocation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := a.compile()
			if err != nil {
				return err
			}
			e := explain(rs, args[0])
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(e)
			}

			fmt.Fprintf(out, "invocation: %s\n", e.Invocation)
			fmt.Fprintf(out, "tool:       %s\n", e.Tool)
			if e.Argument != nil {
				fmt.Fprintf(out, "argument:   %q\n", *e.Argument)
			}
			if e.GuardTrips {
				fmt.Fprintln(out, "guard:      argument contains a shell operator; parameterized patterns cannot match")
			}
			fmt.Fprintf(out, "decision:   %s\n", e.Decision)
			if e.Index != nil {
				fmt.Fprintf(out, "rule:       permissions.%s[%d] %s\n", e.List, *e.Index, e.Pattern)
			} else {
				fmt.Fprintln(out, "rule:       no pattern matched")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the explanation as JSON")
	return cmd
}

func explain(rs *permission.RuleSet, invocation string) explanation {
	inv := permission.ParseInvocation(invocation)
	g := rs.Guard()
	m := rs.Explain(invocation)

	e := explanation{
		Invocation: invocation,
		Tool:       inv.Tool,
		Decision:   m.Decision,
		Guarded:    g.Guarded(inv.Tool),
	}
	if inv.Parameterized {
		arg := inv.Arg
		e.Argument = &arg
		e.GuardTrips = g.Trips(inv.Tool, inv.Arg)
	}
	if m.Rule != nil {
		idx := m.Rule.Index
		e.List = m.Decision.String()
		e.Index = &idx
		e.Pattern = m.Pattern()
	}
	return e
}
