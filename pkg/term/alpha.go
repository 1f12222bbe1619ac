package term

// FreeVars returns the set of de Bruijn indices that occur free in t,
// i.e. refer to a binder outside of t itself, expressed relative to t's
// own top level (an index of 0 in the result means "the nearest
// enclosing binder outside t").
func FreeVars(t Term) map[int]bool {
	fv := map[int]bool{}
	freeVars(t, 0, fv)
	return fv
}

func freeVars(t Term, depth int, out map[int]bool) {
	switch x := t.(type) {
	case Kind, TypeSort, Sym, PatHole:
	case Var:
		if x.Index >= depth {
			out[x.Index-depth] = true
		}
	case App:
		freeVars(x.Fun, depth, out)
		freeVars(x.Arg, depth, out)
	case Prod:
		freeVars(x.Domain, depth, out)
		freeVars(x.Codomain, depth+1, out)
	case Abst:
		if x.Annotation != nil {
			freeVars(x.Annotation, depth, out)
		}
		freeVars(x.Body, depth+1, out)
	default:
		panic("term: FreeVars: unhandled shape")
	}
}

// MetaVars returns the set of PatHole indices occurring in t. pkg/admit
// does not call it; it tracks meta-variables through its own MetaTypes
// map.
func MetaVars(t Term) map[int]bool {
	mv := map[int]bool{}
	metaVars(t, mv)
	return mv
}

func metaVars(t Term, out map[int]bool) {
	switch x := t.(type) {
	case Kind, TypeSort, Sym, Var:
	case PatHole:
		out[x.Index] = true
	case App:
		metaVars(x.Fun, out)
		metaVars(x.Arg, out)
	case Prod:
		metaVars(x.Domain, out)
		metaVars(x.Codomain, out)
	case Abst:
		if x.Annotation != nil {
			metaVars(x.Annotation, out)
		}
		metaVars(x.Body, out)
	default:
		panic("term: MetaVars: unhandled shape")
	}
}

// AlphaEq decides structural equality up to α-renaming. Since binders
// carry no names under piccolo's de Bruijn representation, this is
// exactly structural equality on the two terms — there is nothing left
// to canonicalise (§4.1).
func AlphaEq(a, b Term) bool {
	switch x := a.(type) {
	case Kind:
		_, ok := b.(Kind)
		return ok
	case TypeSort:
		_, ok := b.(TypeSort)
		return ok
	case Var:
		y, ok := b.(Var)
		return ok && x.Index == y.Index
	case Sym:
		y, ok := b.(Sym)
		return ok && x.Eq(y)
	case PatHole:
		y, ok := b.(PatHole)
		return ok && x.Index == y.Index
	case App:
		y, ok := b.(App)
		return ok && AlphaEq(x.Fun, y.Fun) && AlphaEq(x.Arg, y.Arg)
	case Prod:
		y, ok := b.(Prod)
		return ok && AlphaEq(x.Domain, y.Domain) && AlphaEq(x.Codomain, y.Codomain)
	case Abst:
		y, ok := b.(Abst)
		if !ok {
			return false
		}
		if (x.Annotation == nil) != (y.Annotation == nil) {
			return false
		}
		if x.Annotation != nil && !AlphaEq(x.Annotation, y.Annotation) {
			return false
		}
		return AlphaEq(x.Body, y.Body)
	default:
		panic("term: AlphaEq: unhandled shape")
	}
}

// Walk visits t and every subterm, depth-first, calling fn on each. fn
// returns false to skip descending into that term's children.
func Walk(t Term, fn func(Term) bool) {
	if !fn(t) {
		return
	}
	switch x := t.(type) {
	case Kind, TypeSort, Var, Sym, PatHole:
	case App:
		Walk(x.Fun, fn)
		Walk(x.Arg, fn)
	case Prod:
		Walk(x.Domain, fn)
		Walk(x.Codomain, fn)
	case Abst:
		if x.Annotation != nil {
			Walk(x.Annotation, fn)
		}
		Walk(x.Body, fn)
	default:
		panic("term: Walk: unhandled shape")
	}
}

// Unfold resolves metavariable instantiations carried alongside a term
// before any shape-based dispatch. Piccolo's core has no proof-mode
// metavariables (§4.1: "if the implementation carries meta-vars for
// proof mode — otherwise identity"), so Unfold is the identity; every
// reducer/checker entry point still calls it first so that adding proof
// mode later only means changing this one function.
func Unfold(t Term) Term { return t }
