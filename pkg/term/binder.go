package term

import "strconv"

// Shift adds d to every Var index at or above cutoff c, walking under
// binders by incrementing c. This is the standard de Bruijn
// "shift"/"lift" operation (Pierce, TAPL ch. 6): it is needed whenever a
// term built in one binder depth is relocated into a deeper one, which
// happens on every recursive step of Subst.
func Shift(d, c int, t Term) Term {
	switch x := t.(type) {
	case Kind, TypeSort, Sym, PatHole:
		return t
	case Var:
		if x.Index >= c {
			return Var{Index: x.Index + d}
		}
		return x
	case App:
		return App{Fun: Shift(d, c, x.Fun), Arg: Shift(d, c, x.Arg)}
	case Prod:
		return Prod{Domain: Shift(d, c, x.Domain), Codomain: Shift(d, c+1, x.Codomain)}
	case Abst:
		var ann Term
		if x.Annotation != nil {
			ann = Shift(d, c, x.Annotation)
		}
		return Abst{Annotation: ann, Body: Shift(d, c+1, x.Body)}
	default:
		panic("term: Shift: unhandled shape")
	}
}

// substAt replaces Var(j) by s throughout t, shifting s by one and
// bumping j by one every time the walk crosses a binder, so that s
// remains correctly scoped relative to the binder it is being placed
// under.
func substAt(j int, s, t Term) Term {
	switch x := t.(type) {
	case Kind, TypeSort, Sym, PatHole:
		return t
	case Var:
		if x.Index == j {
			return s
		}
		return x
	case App:
		return App{Fun: substAt(j, s, x.Fun), Arg: substAt(j, s, x.Arg)}
	case Prod:
		return Prod{
			Domain:   substAt(j, s, x.Domain),
			Codomain: substAt(j+1, Shift(1, 0, s), x.Codomain),
		}
	case Abst:
		var ann Term
		if x.Annotation != nil {
			ann = substAt(j, s, x.Annotation)
		}
		return Abst{Annotation: ann, Body: substAt(j+1, Shift(1, 0, s), x.Body)}
	default:
		panic("term: substAt: unhandled shape")
	}
}

// Subst implements the body(arg) substitution used by β-reduction and by
// application typing (§4.2, §4.5): given a scope (a Prod's Codomain or an
// Abst's Body, where Var(0) denotes the bound variable) and a
// replacement term valid in the *enclosing* context, it returns the
// scope with the bound variable instantiated to arg, re-expressed in the
// enclosing context.
func Subst(scope, arg Term) Term {
	return Shift(-1, 0, substAt(0, Shift(1, 0, arg), scope))
}

// Open extends a scope one level deeper without substituting anything:
// because Var(0) in scope already denotes the newly bound variable
// relative to a context one longer than the enclosing one, "opening" a
// binder under a pure de Bruijn representation is the identity on the
// term itself. Open exists so call sites that conceptually open a
// binder — inferring a Prod's Codomain, checking an Abst's Body, walking
// both sides of a Prod/Abst pair in eq_modulo (§4.4 rule 4-5) — say so
// explicitly, and so that swapping the binder representation later (say,
// to locally-nameless) only touches this function and Subst.
func Open(scope Term) Term { return scope }

// AbstractIndices rewrites t so that each de Bruijn index in targets
// (given outermost-first) is replaced by a reference to one of
// len(targets) binders a caller will wrap around the result —
// targets[0] becomes the outermost new binder, targets[len(targets)-1]
// the innermost, matching the order Prod/Abst nesting already uses.
// Every other free reference is shifted up by len(targets) to account
// for the new binders now intervening. This is the "close" side of
// higher-order pattern matching (pkg/reduce's matcher builds a
// meta-variable's binding this way; pkg/admit builds a meta-variable's
// function type the same way).
func AbstractIndices(t Term, targets []int) Term {
	return abstractIndices(t, targets, 0)
}

func abstractIndices(t Term, targets []int, depth int) Term {
	switch x := t.(type) {
	case Kind, TypeSort, Sym, PatHole:
		return t
	case Var:
		if x.Index < depth {
			return x
		}
		k := x.Index - depth
		for p, tgt := range targets {
			if tgt == k {
				return Var{Index: depth + (len(targets) - 1 - p)}
			}
		}
		return Var{Index: x.Index + len(targets)}
	case App:
		return App{Fun: abstractIndices(x.Fun, targets, depth), Arg: abstractIndices(x.Arg, targets, depth)}
	case Prod:
		return Prod{Domain: abstractIndices(x.Domain, targets, depth), Codomain: abstractIndices(x.Codomain, targets, depth+1)}
	case Abst:
		var ann Term
		if x.Annotation != nil {
			ann = abstractIndices(x.Annotation, targets, depth)
		}
		return Abst{Annotation: ann, Body: abstractIndices(x.Body, targets, depth+1)}
	default:
		panic("term: AbstractIndices: unhandled shape")
	}
}

// MetaSubst maps meta-variable indices (the k in PatHole(k)) to their
// instantiations.
type MetaSubst map[int]Term

// MultiSubst replaces every PatHole(k) in t by sigma[k], used to
// instantiate a rule's RHS after a successful match (§4.2 "Rule
// firing"). Unlike Subst, this never shifts: meta-variables are not de
// Bruijn bound variables, and a rule's RHS and its meta-variable
// bindings are always well-scoped at the point the rule fires (the
// bindings were captured as closed terms — or, for higher-order holes,
// as Abst nodes — by the matcher in match.go).
func MultiSubst(t Term, sigma MetaSubst) Term {
	switch x := t.(type) {
	case Kind, TypeSort, Sym:
		return t
	case Var:
		return x
	case PatHole:
		v, ok := sigma[x.Index]
		if !ok {
			panic("term: MultiSubst: unbound meta-variable ?_" + strconv.Itoa(x.Index))
		}
		return v
	case App:
		return App{Fun: MultiSubst(x.Fun, sigma), Arg: MultiSubst(x.Arg, sigma)}
	case Prod:
		return Prod{Domain: MultiSubst(x.Domain, sigma), Codomain: MultiSubst(x.Codomain, sigma)}
	case Abst:
		var ann Term
		if x.Annotation != nil {
			ann = MultiSubst(x.Annotation, sigma)
		}
		return Abst{Annotation: ann, Body: MultiSubst(x.Body, sigma)}
	default:
		panic("term: MultiSubst: unhandled shape")
	}
}

