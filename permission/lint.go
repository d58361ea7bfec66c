package permission

import (
	"fmt"
	"strings"
)

// Severity ranks a lint finding.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Finding codes reported by Lint.
const (
	CodeDuplicate   = "duplicate"
	CodeConflict    = "conflict"
	CodeBroadAllow  = "broad-allow"
	CodeShadowed    = "shadowed"
	CodeUnreachable = "unreachable"
)

// sampleArg replaces each wildcard when building a sample invocation.
const sampleArg = " test-arg"

// Finding is one problem Lint detected in a valid policy.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	List     string   `json:"list"`
	Pattern  string   `json:"pattern"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] permissions.%s %q: %s", f.Severity, f.Code, f.List, f.Pattern, f.Message)
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint looks for patterns that are legal but suspicious: duplicates,
// patterns listed under two decisions, allow entries that grant arbitrary
// shell execution, and patterns that can never decide anything.
func Lint(p Policy) []Finding {
	g := p.Guard()
	var findings []Finding

	seen := make(map[string]Decision)
	for _, l := range p.lists() {
		inList := make(map[string]bool, len(l.patterns))
		for _, raw := range l.patterns {
			list := l.decision.String()
			if inList[raw] {
				findings = append(findings, Finding{
					Severity: SeverityWarning, Code: CodeDuplicate, List: list, Pattern: raw,
					Message: "pattern appears more than once in this list",
				})
				continue
			}
			inList[raw] = true

			if other, ok := seen[raw]; ok {
				findings = append(findings, Finding{
					Severity: SeverityError, Code: CodeConflict, List: list, Pattern: raw,
					Message: fmt.Sprintf("pattern is also listed under %s, which takes precedence", other),
				})
				continue
			}
			seen[raw] = l.decision

			if l.decision == Allow && isBroadShellAllow(raw, g) {
				findings = append(findings, Finding{
					Severity: SeverityError, Code: CodeBroadAllow, List: list, Pattern: raw,
					Message: "allows arbitrary shell execution",
				})
			}

			findings = append(findings, reachability(raw, l.decision, p, g)...)
		}
	}
	return findings
}

func isBroadShellAllow(raw string, g Guard) bool {
	pat := ParsePattern(raw)
	if !g.Guarded(pat.Tool) {
		return false
	}
	if pat.Kind == KindBare {
		return true
	}
	return strings.TrimSpace(pat.Arg) == "" || strings.TrimSpace(pat.Arg) == "*"
}

// reachability builds the sample invocation for a parameterized pattern and
// checks that it is classified by the pattern's own list.
func reachability(raw string, want Decision, p Policy, g Guard) []Finding {
	pat := ParsePattern(raw)
	if pat.Kind == KindBare {
		return nil
	}
	list := want.String()

	if g.Trips(pat.Tool, pat.Arg) {
		return []Finding{{
			Severity: SeverityWarning, Code: CodeUnreachable, List: list, Pattern: raw,
			Message: "argument contains a guarded shell operator, so the pattern never matches",
		}}
	}

	sample := SampleInvocation(raw)
	if got := Evaluate(sample, p); got != want {
		return []Finding{{
			Severity: SeverityWarning, Code: CodeShadowed, List: list, Pattern: raw,
			Message: fmt.Sprintf("sample %q evaluates to %s", sample, got),
		}}
	}
	return nil
}

// SampleInvocation builds a representative invocation for a pattern by
// replacing each " *" with a placeholder argument.
func SampleInvocation(pattern string) string {
	tool, inner, parameterized := splitCall(pattern)
	if !parameterized {
		return pattern
	}
	return tool + "(" + strings.ReplaceAll(inner, wildcardSuffix, sampleArg) + ")"
}
