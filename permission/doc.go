// Package permission classifies tool invocations against permission
// patterns.
//
// A pattern is either a bare tool name ("WebSearch") or a parameterized
// call ("Bash(git log *)"). A trailing " *" matches the prefix alone or the
// prefix followed by further space-separated tokens, so "Bash(ls *)"
// matches "Bash(ls)" and "Bash(ls -la)" but not "Bash(lsof)".
//
// A [Policy] holds deny, ask and allow lists. [Evaluate] checks them in that
// order and returns the first list's decision, or [None]:
//
//	p := permission.Policy{
//	    Deny:  []string{"Bash(gh secret *)"},
//	    Allow: []string{"Bash(gh *)"},
//	}
//	permission.Evaluate("Bash(gh secret list)", p) // Deny
//
// For repeated evaluation, [Compile] validates the policy and parses every
// pattern once into a [RuleSet].
//
// Parameterized patterns never match an invocation of a guarded tool (Bash
// by default) whose argument contains ";", "&" or "|". A prefix pattern
// therefore cannot authorize a chained or piped command.
package permission
