package reduce

import (
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// EqModulo decides convertibility of a and b (§4.4): definitional
// equality closed under β, rule reduction, and η on abstractions. It
// never consumes a step budget — conversion must stay total on
// well-typed terms of a confluent, terminating theory, so admitting a
// budget here would make type checking itself non-deterministic.
func EqModulo(table symtab.Table, a, b term.Term) bool {
	return eqModulo(table, a, b, newBudget(Unbounded))
}

// eqModuloBudgeted is what the matcher calls for its non-linear-hole
// fallback: two independently-matched subterms bound to the same
// metavariable must agree up to conversion. It shares the caller's
// budget, since matching is itself reduction work bounded by the
// enclosing Whnf/Snf call (Unbounded when called from EqModulo/check).
func eqModuloBudgeted(table symtab.Table, a, b term.Term, bud *budget) bool {
	return eqModulo(table, a, b, bud)
}

func eqModulo(table symtab.Table, a, b term.Term, bud *budget) bool {
	if term.AlphaEq(a, b) {
		return true
	}
	wa := whnf(table, a, bud)
	wb := whnf(table, b, bud)
	return eqWhnf(table, wa, wb, bud)
}

func eqWhnf(table symtab.Table, a, b term.Term, bud *budget) bool {
	switch x := a.(type) {
	case term.Kind:
		_, ok := b.(term.Kind)
		return ok

	case term.TypeSort:
		_, ok := b.(term.TypeSort)
		return ok

	case term.Prod:
		y, ok := b.(term.Prod)
		if !ok {
			return false
		}
		if !eqModulo(table, x.Domain, y.Domain, bud) {
			return false
		}
		return eqModulo(table, term.Open(x.Codomain), term.Open(y.Codomain), bud)

	case term.Abst:
		if y, ok := b.(term.Abst); ok {
			if x.Annotation != nil && y.Annotation != nil && !eqModulo(table, x.Annotation, y.Annotation, bud) {
				return false
			}
			return eqModulo(table, term.Open(x.Body), term.Open(y.Body), bud)
		}
		return eqEta(table, x, b, bud)

	default:
		if y, ok := b.(term.Abst); ok {
			return eqEta(table, y, a, bud)
		}
		return eqSpine(table, a, b, bud)
	}
}

// eqEta tests abst ≡ other by η: abst.Body ≡ other lifted into the
// binder's scope and applied to the fresh bound variable (§4.4 rule 5,
// checked in both directions by eqWhnf's two call sites).
func eqEta(table symtab.Table, abst term.Abst, other term.Term, bud *budget) bool {
	lifted := term.Shift(1, 0, other)
	candidate := term.App{Fun: lifted, Arg: term.Var{Index: 0}}
	return eqModulo(table, term.Open(abst.Body), candidate, bud)
}

// eqSpine compares two stuck applications (head is a bound variable or
// a symbol already in whnf with no rule applicable) by rigid head
// identity and pointwise-convertible arguments.
func eqSpine(table symtab.Table, a, b term.Term, bud *budget) bool {
	ah, aargs := term.Spine(a)
	bh, bargs := term.Spine(b)
	if len(aargs) != len(bargs) {
		return false
	}
	if !sameRigidHead(ah, bh) {
		return false
	}
	for i := range aargs {
		if !eqModulo(table, aargs[i], bargs[i], bud) {
			return false
		}
	}
	return true
}
