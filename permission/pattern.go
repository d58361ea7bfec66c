package permission

import "strings"

// wildcardSuffix marks a parameterized pattern as a token-boundary prefix.
const wildcardSuffix = " *"

// Kind is the shape of a parsed pattern.
type Kind int

const (
	KindBare   Kind = iota // "WebSearch": the tool with any or no argument
	KindExact              // "Bash(git status)": exactly this argument
	KindPrefix             // "Bash(git log *)": this argument or it followed by more tokens
)

// Pattern is a permission pattern parsed once for repeated matching.
type Pattern struct {
	Raw  string
	Tool string
	Kind Kind
	Arg  string // exact argument, or the prefix without its " *"
}

// ParsePattern parses s. Parsing is total: every string yields a pattern,
// and malformed input is the concern of ValidatePattern.
func ParsePattern(s string) Pattern {
	tool, inner, parameterized := splitCall(s)
	if !parameterized {
		return Pattern{Raw: s, Tool: s, Kind: KindBare}
	}
	if prefix, ok := strings.CutSuffix(inner, wildcardSuffix); ok {
		return Pattern{Raw: s, Tool: tool, Kind: KindPrefix, Arg: prefix}
	}
	return Pattern{Raw: s, Tool: tool, Kind: KindExact, Arg: inner}
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.Raw
}

// Match reports whether the pattern matches inv under guard g.
//
// A bare pattern matches its tool with any argument. A parameterized
// pattern never matches a bare invocation, and never matches an invocation
// of a guarded tool whose argument contains a guarded operator.
func (p Pattern) Match(inv Invocation, g Guard) bool {
	if p.Kind == KindBare {
		if !inv.Parameterized {
			return p.Raw == inv.Raw
		}
		return p.Raw == inv.Tool
	}

	if !inv.Parameterized || p.Tool != inv.Tool {
		return false
	}
	if g.Trips(inv.Tool, inv.Arg) {
		return false
	}

	if p.Kind == KindPrefix {
		return inv.Arg == p.Arg || strings.HasPrefix(inv.Arg, p.Arg+" ")
	}
	return inv.Arg == p.Arg
}

// Matches reports whether pattern matches invocation using DefaultGuard.
func Matches(pattern, invocation string) bool {
	return ParsePattern(pattern).Match(ParseInvocation(invocation), DefaultGuard)
}
