package permission

import "strings"

// DefaultGuardChars are the shell operators that chain or pipe commands.
const DefaultGuardChars = ";&|"

// DefaultGuardedTools names the shell-execution tools guarded by default.
var DefaultGuardedTools = []string{"Bash"}

// DefaultGuard refuses to match any parameterized pattern against a Bash
// invocation whose argument contains ";", "&" or "|".
var DefaultGuard = Guard{
	IsGuardedTool: GuardTools(DefaultGuardedTools...),
	Chars:         DefaultGuardChars,
}

// Guard stops a prefix pattern from authorizing a chained or piped command.
// A zero Guard guards nothing.
type Guard struct {
	IsGuardedTool func(tool string) bool
	Chars         string
}

// GuardTools returns a predicate reporting whether a tool is one of names.
func GuardTools(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(tool string) bool {
		_, ok := set[tool]
		return ok
	}
}

// WithTools returns a copy of g that additionally guards the named tools.
func (g Guard) WithTools(names ...string) Guard {
	if len(names) == 0 {
		return g
	}
	extra := GuardTools(names...)
	base := g.IsGuardedTool
	return Guard{
		Chars: g.Chars,
		IsGuardedTool: func(tool string) bool {
			return extra(tool) || (base != nil && base(tool))
		},
	}
}

// Guarded reports whether tool is subject to the guard.
func (g Guard) Guarded(tool string) bool {
	return g.IsGuardedTool != nil && g.IsGuardedTool(tool)
}

// Trips reports whether arg, passed to tool, contains a guarded operator.
func (g Guard) Trips(tool, arg string) bool {
	return g.Chars != "" && g.Guarded(tool) && strings.ContainsAny(arg, g.Chars)
}
