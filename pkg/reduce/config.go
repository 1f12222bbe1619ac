// Package reduce implements weak-head normalisation, full normalisation,
// the higher-order pattern matcher, and the convertibility test of
// spec.md §4.2-§4.4.
//
// The reducer's recursive structure — decompose a closed sum-typed term,
// special-case each shape, thread a result through recursive calls —
// follows the shape of pkg/hm/unify.go's unify function, generalised
// from unifying two type ASTs to matching a pattern against a weak-head
// spine and to deciding conversion between two terms.
package reduce

// Config controls reduction limits for eval directives (§9's "configurable
// step budget" design note, realised as a concrete field instead of a
// note). The zero Config has no budget: MaxSteps == 0 means unbounded,
// which is what EqModulo always uses internally — a budget must never
// leak into conversion, which has to stay total on well-typed terms in
// sound theories (§4.4).
type Config struct {
	// MaxSteps bounds the number of WHNF reduction steps (β + rule
	// firings) taken by a single Whnf/Snf call. Zero means unbounded.
	MaxSteps int
}

// Unbounded is the zero-value Config: no step budget.
var Unbounded = Config{}

// budget tracks remaining steps for one top-level Whnf/Snf call. An
// unbounded budget (what EqModulo creates from Unbounded) never reports
// exhaustion. A nil *budget is not valid.
type budget struct {
	remaining int
	unbounded bool
	exhausted bool
}

func newBudget(cfg Config) *budget {
	if cfg.MaxSteps <= 0 {
		return &budget{unbounded: true}
	}
	return &budget{remaining: cfg.MaxSteps}
}

// step consumes one unit of budget, reporting false if none remains.
func (b *budget) step() bool {
	if b.unbounded {
		return true
	}
	if b.remaining <= 0 {
		b.exhausted = true
		return false
	}
	b.remaining--
	return true
}
