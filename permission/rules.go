package permission

// Policy is the permissions block of a settings document: three pattern
// lists plus optional extensions. Lists are evaluated deny, ask, allow.
type Policy struct {
	Allow []string `json:"allow" yaml:"allow" jsonschema:"required,description=Patterns that run without confirmation"`
	Deny  []string `json:"deny" yaml:"deny" jsonschema:"required,description=Patterns that are always blocked"`
	Ask   []string `json:"ask" yaml:"ask" jsonschema:"required,description=Patterns that require confirmation"`

	DefaultMode  string   `json:"defaultMode,omitempty" yaml:"defaultMode,omitempty" jsonschema:"enum=default,enum=acceptEdits,enum=bypassPermissions,enum=plan,description=Fallback for unmatched tool calls"`
	GuardedTools []string `json:"guardedTools,omitempty" yaml:"guardedTools,omitempty" jsonschema:"description=Extra shell tools whose arguments may not contain chaining operators"`
}

// Guard returns DefaultGuard extended with the policy's guarded tools.
func (p Policy) Guard() Guard {
	return DefaultGuard.WithTools(p.GuardedTools...)
}

// lists returns the three lists in evaluation order.
func (p Policy) lists() []ruleList {
	return []ruleList{
		{Deny, p.Deny},
		{Ask, p.Ask},
		{Allow, p.Allow},
	}
}

type ruleList struct {
	decision Decision
	patterns []string
}

// Evaluate classifies invocation against p: the first list (deny, then ask,
// then allow) containing a matching pattern decides; otherwise None.
// Patterns are parsed on every call; use Compile for repeated evaluation.
func Evaluate(invocation string, p Policy) Decision {
	inv := ParseInvocation(invocation)
	g := p.Guard()
	for _, l := range p.lists() {
		for _, raw := range l.patterns {
			if ParsePattern(raw).Match(inv, g) {
				return l.decision
			}
		}
	}
	return None
}

// Rule is a declarative permission rule.
type Rule struct {
	Pattern  Pattern
	Decision Decision // Allow, Deny, or Ask
	Index    int      // position within its settings list
}

// MatchRules evaluates rules against an invocation using DefaultGuard.
// Evaluation order: deny rules, then ask rules, then allow rules,
// regardless of their order in the slice.
// Returns (decision, matched). If no rule matches, matched is false.
func MatchRules(rules []Rule, invocation string) (Decision, bool) {
	inv := ParseInvocation(invocation)
	var hasAsk, hasAllow bool

	for _, r := range rules {
		if !r.Pattern.Match(inv, DefaultGuard) {
			continue
		}
		switch r.Decision {
		case Deny:
			return Deny, true
		case Ask:
			hasAsk = true
		case Allow:
			hasAllow = true
		}
	}

	if hasAsk {
		return Ask, true
	}
	if hasAllow {
		return Allow, true
	}
	return None, false
}

// Match is the result of Explain: the decision and the rule that made it.
// Rule is nil when Decision is None.
type Match struct {
	Decision   Decision `json:"decision"`
	Invocation string   `json:"invocation"`
	Rule       *Rule    `json:"-"`
}

// Pattern returns the matching pattern text, or "" when nothing matched.
func (m Match) Pattern() string {
	if m.Rule == nil {
		return ""
	}
	return m.Rule.Pattern.Raw
}

// RuleSet is a validated policy with every pattern parsed once.
// It is immutable and safe for concurrent use.
type RuleSet struct {
	tiers [3][]Rule // deny, ask, allow
	guard Guard
	mode  Mode
}

// Option configures Compile.
type Option func(*compileOptions)

type compileOptions struct {
	guard    Guard
	guardSet bool
}

// WithGuard replaces the guard derived from the policy.
func WithGuard(g Guard) Option {
	return func(o *compileOptions) {
		o.guard = g
		o.guardSet = true
	}
}

// Compile validates p and parses its patterns.
// The returned error joins every ValidationError found.
func Compile(p Policy, opts ...Option) (*RuleSet, error) {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}
	if !o.guardSet {
		o.guard = p.Guard()
	}

	if err := p.validate(o.guard); err != nil {
		return nil, err
	}
	mode, err := ParseMode(p.DefaultMode)
	if err != nil {
		return nil, err
	}

	rs := &RuleSet{guard: o.guard, mode: mode}
	for i, l := range p.lists() {
		rules := make([]Rule, 0, len(l.patterns))
		for j, raw := range l.patterns {
			rules = append(rules, Rule{Pattern: ParsePattern(raw), Decision: l.decision, Index: j})
		}
		rs.tiers[i] = rules
	}
	return rs, nil
}

// MustCompile is like Compile but panics on an invalid policy.
func MustCompile(p Policy, opts ...Option) *RuleSet {
	rs, err := Compile(p, opts...)
	if err != nil {
		panic(err)
	}
	return rs
}

// Evaluate classifies invocation.
func (rs *RuleSet) Evaluate(invocation string) Decision {
	return rs.Explain(invocation).Decision
}

// Explain classifies invocation and reports the rule that decided it.
func (rs *RuleSet) Explain(invocation string) Match {
	inv := ParseInvocation(invocation)
	for _, tier := range rs.tiers {
		for i := range tier {
			if tier[i].Pattern.Match(inv, rs.guard) {
				r := tier[i]
				return Match{Decision: r.Decision, Invocation: invocation, Rule: &r}
			}
		}
	}
	return Match{Decision: None, Invocation: invocation}
}

// Rules returns every rule in evaluation order.
func (rs *RuleSet) Rules() []Rule {
	var out []Rule
	for _, tier := range rs.tiers {
		out = append(out, tier...)
	}
	return out
}

// Guard returns the guard the rule set matches with.
func (rs *RuleSet) Guard() Guard {
	return rs.guard
}

// Mode returns the policy's default mode.
func (rs *RuleSet) Mode() Mode {
	return rs.mode
}
