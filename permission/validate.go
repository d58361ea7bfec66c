package permission

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Pattern syntax errors. ValidationError wraps one of these.
var (
	ErrEmptyPattern       = errors.New("permission: empty pattern")
	ErrInvalidSyntax      = errors.New("permission: invalid pattern syntax")
	ErrUnbalancedParens   = errors.New("permission: unbalanced parentheses")
	ErrDeprecatedWildcard = errors.New("permission: deprecated \":*\" wildcard, use \" *\"")
	ErrWildcardPosition   = errors.New("permission: wildcard only allowed as trailing \" *\"")
	ErrEmptyArgument      = errors.New("permission: empty argument for guarded tool")
	ErrBareWildcard       = errors.New("permission: bare wildcard for guarded tool")
)

var toolPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\(.*\))?$`)

// ValidationError locates an invalid pattern inside a policy.
type ValidationError struct {
	List    string // "deny", "ask" or "allow"
	Index   int
	Pattern string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("permissions.%s[%d] %q: %v", e.List, e.Index, e.Pattern, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidatePattern checks s against the pattern grammar. Patterns for tools
// guarded by g must also carry a real command prefix.
func ValidatePattern(s string, g Guard) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyPattern
	}
	if strings.Count(s, "(") != strings.Count(s, ")") {
		return ErrUnbalancedParens
	}
	if !toolPattern.MatchString(s) {
		return ErrInvalidSyntax
	}
	if strings.Contains(s, ":*)") {
		return ErrDeprecatedWildcard
	}

	p := ParsePattern(s)
	if p.Kind == KindBare {
		return nil
	}
	if strings.Contains(p.Arg, "*") && strings.TrimSpace(p.Arg) != "*" {
		return ErrWildcardPosition
	}
	if g.Guarded(p.Tool) {
		_, inner, _ := splitCall(s)
		switch strings.TrimSpace(inner) {
		case "":
			return ErrEmptyArgument
		case "*":
			return ErrBareWildcard
		}
	}
	if strings.TrimSpace(p.Arg) == "*" {
		return ErrWildcardPosition
	}
	return nil
}

// Validate checks every pattern of p and returns all problems joined, or nil.
func (p Policy) Validate() error {
	if _, err := ParseMode(p.DefaultMode); err != nil {
		return err
	}
	return p.validate(p.Guard())
}

func (p Policy) validate(g Guard) error {
	var errs []error
	for _, l := range p.lists() {
		for i, raw := range l.patterns {
			if err := ValidatePattern(raw, g); err != nil {
				errs = append(errs, &ValidationError{
					List:    l.decision.String(),
					Index:   i,
					Pattern: raw,
					Err:     err,
				})
			}
		}
	}
	return errors.Join(errs...)
}
