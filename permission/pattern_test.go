package permission_test

import (
	"testing"

	"github.com/armatrix/claude-permissions-go/permission"
	"github.com/stretchr/testify/assert"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		raw  string
		tool string
		kind permission.Kind
		arg  string
	}{
		{"WebSearch", "WebSearch", permission.KindBare, ""},
		{"Bash(git status)", "Bash", permission.KindExact, "git status"},
		{"Bash(git log *)", "Bash", permission.KindPrefix, "git log"},
		{"Bash(python -c print(1))", "Bash", permission.KindExact, "python -c print(1)"},
		{"Bash(ls)", "Bash", permission.KindExact, "ls"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			p := permission.ParsePattern(tt.raw)
			assert.Equal(t, tt.raw, p.Raw)
			assert.Equal(t, tt.tool, p.Tool)
			assert.Equal(t, tt.kind, p.Kind)
			assert.Equal(t, tt.arg, p.Arg)
		})
	}
}

func TestParseInvocation(t *testing.T) {
	inv := permission.ParseInvocation("Bash(python -c print(1))")
	assert.True(t, inv.Parameterized)
	assert.Equal(t, "Bash", inv.Tool)
	assert.Equal(t, "python -c print(1)", inv.Arg)

	inv = permission.ParseInvocation("WebFetch")
	assert.False(t, inv.Parameterized)
	assert.Equal(t, "WebFetch", inv.Tool)
	assert.Empty(t, inv.Arg)
}

func TestMatches_Wildcard(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		invocation string
		want       bool
	}{
		{"with args", "Bash(ls *)", "Bash(ls -la)", true},
		{"without args", "Bash(ls *)", "Bash(ls)", true},
		{"long args", "Bash(git commit *)", `Bash(git commit -m "fix: long message")`, true},
		{"path args", "Bash(ls *)", "Bash(ls /foo/bar/baz)", true},
		{"many tokens", "T(cmd *)", "T(cmd a b c)", true},
		{"word boundary", "Bash(ls *)", "Bash(lsof)", false},
		{"partial command", "Bash(git *)", "Bash(gitk)", false},
		{"glued suffix", "T(cmd *)", "T(cmdx)", false},
		{"multi-word prefix", "Bash(git commit *)", `Bash(git commit -m "msg")`, true},
		{"different subcommand", "Bash(git commit *)", "Bash(git push origin main)", false},
		{"bare subcommand", "Bash(git commit *)", "Bash(git commit)", true},
		{"hyphenated subcommand", "Bash(git commit *)", "Bash(git commit-msg)", false},
		{"other tool", "Bash(ls *)", "Shell(ls -la)", false},
		{"bare invocation", "Bash(ls *)", "Bash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, permission.Matches(tt.pattern, tt.invocation))
		})
	}
}

func TestMatches_Exact(t *testing.T) {
	assert.True(t, permission.Matches("Bash(git status)", "Bash(git status)"))
	assert.False(t, permission.Matches("Bash(git status)", "Bash(git status -s)"))
	assert.False(t, permission.Matches("Bash(git status)", "Bash(git)"))
}

func TestMatches_ShellOperatorGuard(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		invocation string
	}{
		{"and", "Bash(ls *)", "Bash(cd /foo && ls)"},
		{"pipe", "Bash(grep *)", "Bash(cat file | grep pattern)"},
		{"semicolon", "Bash(ls *)", "Bash(cd /foo; ls)"},
		{"or", "Bash(ls *)", "Bash(ls /foo || echo fail)"},
		{"background", "Bash(sleep *)", "Bash(sleep 1 &)"},
		{"exact pattern", "Bash(ls; rm -rf /)", "Bash(ls; rm -rf /)"},
		{"matching prefix", "Bash(cd *)", "Bash(cd /foo && ls)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, permission.Matches(tt.pattern, tt.invocation))
		})
	}
}

func TestMatches_GuardOnlyAppliesToGuardedTool(t *testing.T) {
	assert.True(t, permission.Matches("Grep(a|b)", "Grep(a|b)"))
	assert.True(t, permission.Matches("WebFetch(https://x *)", "WebFetch(https://x ?a=1&b=2)"))
}

func TestMatches_BarePattern(t *testing.T) {
	assert.True(t, permission.Matches("WebSearch", "WebSearch"))
	assert.True(t, permission.Matches("WebSearch", "WebSearch(query here)"))
	assert.False(t, permission.Matches("WebSearch", "WebFetch(url)"))
	assert.False(t, permission.Matches("T", "T2"))
	assert.False(t, permission.Matches("T", "T2(anything)"))
	assert.True(t, permission.Matches("T", "T(anything)"))
}

func TestMatches_BarePatternIgnoresGuard(t *testing.T) {
	// A bare tool name covers every parameterization, so "Bash" in deny
	// still blocks chained commands.
	assert.True(t, permission.Matches("Bash", "Bash(cd /foo && rm -rf /)"))
}

func TestMatches_Deterministic(t *testing.T) {
	for range 3 {
		assert.True(t, permission.Matches("Bash(ls *)", "Bash(ls -la)"))
		assert.False(t, permission.Matches("Bash(ls *)", "Bash(lsof)"))
	}
}

func TestPatternMatch_CustomGuard(t *testing.T) {
	g := permission.Guard{IsGuardedTool: permission.GuardTools("Shell"), Chars: ";"}
	p := permission.ParsePattern("Shell(ls *)")

	assert.False(t, p.Match(permission.ParseInvocation("Shell(ls; rm x)"), g))
	assert.True(t, p.Match(permission.ParseInvocation("Shell(ls | wc)"), g), "| is not guarded here")

	bash := permission.ParsePattern("Bash(ls *)")
	assert.True(t, bash.Match(permission.ParseInvocation("Bash(ls && rm x)"), g), "Bash is not guarded here")
}

func TestGuard_WithTools(t *testing.T) {
	g := permission.DefaultGuard.WithTools("PowerShell")
	assert.True(t, g.Guarded("Bash"))
	assert.True(t, g.Guarded("PowerShell"))
	assert.False(t, g.Guarded("Read"))
	assert.True(t, g.Trips("PowerShell", "a; b"))

	var zero permission.Guard
	assert.False(t, zero.Trips("Bash", "a && b"))
}
