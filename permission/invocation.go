package permission

import "strings"

// Invocation is a concrete tool call in textual form, either a bare tool
// name ("WebSearch") or a parameterized call ("Bash(ls -la)").
type Invocation struct {
	Raw           string
	Tool          string
	Arg           string
	Parameterized bool
}

// ParseInvocation splits s into its tool name and argument. The split is at
// the first "(" and a single trailing ")" is dropped, so arguments may
// themselves contain parentheses.
func ParseInvocation(s string) Invocation {
	tool, inner, ok := splitCall(s)
	return Invocation{Raw: s, Tool: tool, Arg: inner, Parameterized: ok}
}

// String returns the invocation as it was given.
func (i Invocation) String() string {
	return i.Raw
}

func splitCall(s string) (tool, inner string, parameterized bool) {
	tool, inner, parameterized = strings.Cut(s, "(")
	if !parameterized {
		return s, "", false
	}
	return tool, strings.TrimSuffix(inner, ")"), true
}
