package reduce

import (
	"fmt"

	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Snf computes the strong normal form of t: whnf, then recursively
// normalised under every binder and in every argument position (§4.2).
// Termination is only guaranteed for confluent, strongly normalising
// rule sets — an ill-behaved theory can make this loop forever, exactly
// as it can for whnf; cfg bounds both the same way.
func Snf(table symtab.Table, t term.Term, cfg Config) term.Term {
	return snf(table, t, newBudget(cfg))
}

// SnfBudgeted is Snf plus a report of whether cfg's step budget ran out
// before a strong normal form was reached, mirroring WhnfBudgeted.
func SnfBudgeted(table symtab.Table, t term.Term, cfg Config) (result term.Term, exhausted bool) {
	b := newBudget(cfg)
	result = snf(table, t, b)
	return result, b.exhausted
}

func snf(table symtab.Table, t term.Term, b *budget) term.Term {
	w := whnf(table, t, b)
	switch x := w.(type) {
	case term.Kind, term.TypeSort, term.Var, term.Sym, term.PatHole:
		return w
	case term.App:
		return term.App{Fun: snf(table, x.Fun, b), Arg: snf(table, x.Arg, b)}
	case term.Prod:
		return term.Prod{Domain: snf(table, x.Domain, b), Codomain: snf(table, x.Codomain, b)}
	case term.Abst:
		var ann term.Term
		if x.Annotation != nil {
			ann = snf(table, x.Annotation, b)
		}
		return term.Abst{Annotation: ann, Body: snf(table, x.Body, b)}
	default:
		panic(fmt.Sprintf("reduce: unhandled term shape %T in snf", w))
	}
}
