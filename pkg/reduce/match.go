package reduce

import (
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// match attempts to match pattern pat against subject, extending sigma
// with any new metavariable bindings (§4.3). Only pat's own weak head is
// ever inspected directly; subject is whnf'd lazily, one layer at a
// time, exactly where a structural comparison needs to see through it —
// arguments that never participate in a structural position are never
// reduced at all.
func match(table symtab.Table, pat, subject term.Term, sigma term.MetaSubst, b *budget) (term.MetaSubst, bool) {
	patHead, patArgs := term.Spine(term.Unfold(pat))

	if hole, isHole := patHead.(term.PatHole); isHole {
		return matchHole(table, hole.Index, patArgs, subject, sigma, b)
	}

	if v, isVar := patHead.(term.Var); isVar && len(patArgs) == 0 {
		w := whnf(table, subject, b)
		wv, ok := w.(term.Var)
		if !ok || wv.Index != v.Index {
			return nil, false
		}
		return sigma, true
	}

	// A literal Abst in a pattern only matches a subject that itself
	// whnf's to an abstraction — this is how a rule states "this argument
	// must be a function", and lets a higher-order hole nested in the
	// pattern's body (applied to the bound variable this Abst introduces)
	// bind an eta-abstraction over the subject's own body via matchHole.
	if patAbst, isAbst := patHead.(term.Abst); isAbst && len(patArgs) == 0 {
		w := whnf(table, subject, b)
		subjAbst, ok := w.(term.Abst)
		if !ok {
			return nil, false
		}
		return match(table, patAbst.Body, subjAbst.Body, sigma, b)
	}

	w := whnf(table, subject, b)
	subjHead, subjArgs := term.Spine(w)
	if !sameRigidHead(patHead, subjHead) || len(patArgs) != len(subjArgs) {
		return nil, false
	}
	for i := range patArgs {
		var ok bool
		sigma, ok = match(table, patArgs[i], subjArgs[i], sigma, b)
		if !ok {
			return nil, false
		}
	}
	return sigma, true
}

func sameRigidHead(a, b term.Term) bool {
	switch x := a.(type) {
	case term.Sym:
		y, ok := b.(term.Sym)
		return ok && x.Eq(y)
	case term.Var:
		y, ok := b.(term.Var)
		return ok && x.Index == y.Index
	default:
		return false
	}
}

// matchHole binds or checks a (possibly higher-order) metavariable
// occurrence PatHole(idx) vars..., where vars must be pairwise-distinct
// bound variables per the Miller pattern condition (enforced at rule
// admission, pkg/admit — match assumes it already holds). A zero-arity
// hole binds directly to subject; an applied hole binds to the
// abstraction over subject that re-binds each var as a fresh parameter.
func matchHole(table symtab.Table, idx int, vars []term.Term, subject term.Term, sigma term.MetaSubst, b *budget) (term.MetaSubst, bool) {
	var candidate term.Term
	if len(vars) == 0 {
		candidate = subject
	} else {
		indices := make([]int, len(vars))
		for i, v := range vars {
			bv, ok := v.(term.Var)
			if !ok {
				return nil, false
			}
			indices[i] = bv.Index
		}
		candidate = abstractVars(subject, indices)
	}

	if existing, bound := sigma[idx]; bound {
		if eqModuloBudgeted(table, existing, candidate, b) {
			return sigma, true
		}
		return nil, false
	}

	next := make(term.MetaSubst, len(sigma)+1)
	for k, v := range sigma {
		next[k] = v
	}
	next[idx] = candidate
	return next, true
}

// abstractVars builds λv_1. ... λv_j. subject', re-binding each
// original index in targets (in the order given, v_1 outermost) to the
// corresponding fresh Abst parameter — the term-level transformation is
// term.AbstractIndices; this just adds the anonymous Abst wrapping
// (order-independent here since none of the new binders carry an
// annotation).
func abstractVars(subject term.Term, targets []int) term.Term {
	body := term.AbstractIndices(subject, targets)
	for range targets {
		body = term.Abst{Body: body}
	}
	return body
}
