package reduce

import (
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Whnf computes the weak-head normal form of t: a term whose head is a
// variable, a sort, a product, an abstraction, or a symbol applied to
// arguments such that no rule of that symbol applies and no β-redex is
// exposed (§4.2). table supplies the rule lists rule firing reads from;
// cfg bounds the number of reduction steps taken (Unbounded for no
// limit — always what EqModulo uses internally).
func Whnf(table symtab.Table, t term.Term, cfg Config) term.Term {
	return whnf(table, t, newBudget(cfg))
}

// WhnfBudgeted is Whnf plus a report of whether cfg's step budget ran
// out before a weak-head normal form was reached — the signal
// pkg/dispatch needs to raise a recoverable *perr.StepBudgetExceeded
// for an eval directive (§9), without eq_modulo's own always-unbounded
// calls having to pay for that bookkeeping.
func WhnfBudgeted(table symtab.Table, t term.Term, cfg Config) (result term.Term, exhausted bool) {
	b := newBudget(cfg)
	result = whnf(table, t, b)
	return result, b.exhausted
}

// whnf is the internal entry point shared by Whnf, Snf, EqModulo, and
// the matcher, threading a single budget through however many nested
// calls one top-level reduction performs.
func whnf(table symtab.Table, t term.Term, b *budget) term.Term {
	head, args := term.Spine(term.Unfold(t))

	for {
		switch h := head.(type) {
		case term.Abst:
			if len(args) == 0 {
				return h
			}
			if !b.step() {
				return term.Apply(head, args...)
			}
			reduced := term.Unfold(term.Subst(h.Body, args[0]))
			newHead, newArgs := term.Spine(reduced)
			head = newHead
			args = append(append([]term.Term{}, newArgs...), args[1:]...)
			continue

		case term.Sym:
			sym, ok := table.Find(h.Module, h.Name)
			if ok && sym.Tag == symtab.Definable {
				if rhs, suffix, fired := tryRules(table, table.RulesOf(sym.Ref), args, b); fired {
					newHead, newArgs := term.Spine(term.Unfold(rhs))
					head = newHead
					args = append(append([]term.Term{}, newArgs...), suffix...)
					continue
				}
			}
			return term.Apply(head, args...)

		default:
			return term.Apply(head, args...)
		}
	}
}

// tryRules attempts each rule in declaration order against the current
// spine (head already matched the caller's symbol, args is everything
// applied to it so far). The first rule whose LHSArgs all match wins
// (§4.2 "Rule selection policy"); no attempt is made to find the most
// specific rule. It returns the instantiated RHS, the suffix of args the
// rule's pattern did not consume (re-applied by the caller), and whether
// any rule fired.
func tryRules(table symtab.Table, rules []*symtab.Rule, args []term.Term, b *budget) (rhs term.Term, suffix []term.Term, ok bool) {
	for _, rule := range rules {
		if len(args) < len(rule.LHSArgs) {
			continue
		}
		sigma := term.MetaSubst{}
		matched := true
		for i, pat := range rule.LHSArgs {
			var okArg bool
			sigma, okArg = match(table, pat, args[i], sigma, b)
			if !okArg {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if !b.step() {
			return nil, nil, false
		}
		return term.MultiSubst(rule.RHS, sigma), args[len(rule.LHSArgs):], true
	}
	return nil, nil, false
}
