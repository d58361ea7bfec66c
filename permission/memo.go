package permission

import (
	"errors"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultMemoEntries bounds a Memo created with a non-positive size.
const DefaultMemoEntries = 10_000

// ErrNilRuleSet is returned by NewMemo when given a nil rule set.
var ErrNilRuleSet = errors.New("permission: memo requires a rule set")

// Memo caches Explain results per invocation string. Evaluation is
// deterministic, so a cached result is always the result Explain would give.
// Memo is safe for concurrent use.
type Memo struct {
	rs *RuleSet
	c  *ristretto.Cache[string, Match]
}

// NewMemo wraps rs with a cache holding up to maxEntries results.
func NewMemo(rs *RuleSet, maxEntries int64) (*Memo, error) {
	if rs == nil {
		return nil, ErrNilRuleSet
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMemoEntries
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, Match]{
		NumCounters: maxEntries * 10, // ~10x expected items
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memo{rs: rs, c: c}, nil
}

// Explain returns the cached match for invocation, computing it on a miss.
func (m *Memo) Explain(invocation string) Match {
	if got, ok := m.c.Get(invocation); ok {
		return got
	}
	match := m.rs.Explain(invocation)
	m.c.Set(invocation, match, 1)
	return match
}

// Evaluate returns the decision for invocation.
func (m *Memo) Evaluate(invocation string) Decision {
	return m.Explain(invocation).Decision
}

// Wait blocks until buffered cache writes are applied.
func (m *Memo) Wait() {
	m.c.Wait()
}

// Close releases the cache.
func (m *Memo) Close() {
	m.c.Close()
}
