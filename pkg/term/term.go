// Package term implements the core representation of the λΠ-modulo
// calculus: sorts, de Bruijn-indexed variables, symbol references,
// applications, dependent products, abstractions, and rewrite-rule
// pattern holes.
//
// Binders are represented with plain de Bruijn indices rather than a
// named-and-freshened or locally-nameless scheme. This keeps opening a
// binder free: extending a typing Context and recursing directly into a
// Prod/Abst body is always correct, because Var(0) in that body already
// denotes the newly introduced variable relative to the extended
// context. The only place indices need to move is substitution, which
// Subst and MultiSubst implement following the standard shift/subst
// discipline (Pierce, TAPL ch. 6). Crossing a binder goes through Open,
// Subst, Shift, AbstractIndices and MultiSubst; other packages still
// read Var indices and build Var values where they need to (the
// checker's context lookup, the matcher and conversion test in
// pkg/reduce, pkg/admit's higher-order pattern typing, the parser).
package term

import "fmt"

// Term is any of the disjoint shapes of §3: Kind, Type, Var, Sym, App,
// Prod, Abst, or PatHole. It is a closed sum type; callers switch on the
// concrete type after calling Unfold.
type Term interface {
	fmt.Stringer
	isTerm()
}

// Kind is the universe of the type of types. It only ever appears as a
// type, never as the subject of typing.
type Kind struct{}

func (Kind) isTerm() {}

// TypeSort is the universe of ordinary types.
type TypeSort struct{}

func (TypeSort) isTerm() {}

// Var is a bound variable referenced by de Bruijn index: the number of
// binders (Prod/Abst) enclosing this occurrence, counting outward from
// the nearest one.
type Var struct {
	Index int
}

func (Var) isTerm() {}

// Sym is a reference to a symbol declared under a module path.
type Sym struct {
	Module string
	Name   string
}

func (Sym) isTerm() {}

// Eq reports whether two symbol references name the same (module, name)
// pair.
func (s Sym) Eq(o Sym) bool { return s.Module == o.Module && s.Name == o.Name }

// App is a left-associative application; App(App(f, a), b) is the spine
// "f a b".
type App struct {
	Fun Term
	Arg Term
}

func (App) isTerm() {}

// Prod is a dependent product (π-type) "(x : Domain) -> Codomain",
// where Codomain is a scope: a term in which Var(0) refers to the bound
// variable x.
type Prod struct {
	Domain   Term
	Codomain Term
}

func (Prod) isTerm() {}

// Abst is a λ-abstraction. Annotation may be nil for an unannotated λ,
// which is only checkable, never inferable (§4.5). Body is a scope, as
// in Prod.
type Abst struct {
	Annotation Term // nil if unannotated
	Body       Term
}

func (Abst) isTerm() {}

// PatHole is a placeholder for the k-th meta-variable of a rewrite rule.
// It is only ever valid inside a Rule's LHS arguments (and, applied to
// bound variables, in higher-order pattern position); it never occurs in
// a fully elaborated program term.
type PatHole struct {
	Index int
}

func (PatHole) isTerm() {}

// Apply builds the left-leaning application spine head applied to args
// in order, i.e. Apply(f, a, b) == App(App(f, a), b).
func Apply(head Term, args ...Term) Term {
	result := head
	for _, a := range args {
		result = App{Fun: result, Arg: a}
	}
	return result
}

// Spine decomposes a left-leaning application into its head and the
// ordered list of arguments, walking the left spine. Spine(f) == (f,
// nil) when f is not an App.
func Spine(t Term) (head Term, args []Term) {
	for {
		app, ok := t.(App)
		if !ok {
			// reverse the accumulated (innermost-first) args
			for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
				args[i], args[j] = args[j], args[i]
			}
			return t, args
		}
		args = append(args, app.Arg)
		t = app.Fun
	}
}

// AsSym reports whether the term's head, after walking the spine, is a
// reference to (module, name), and returns the arguments applied to it.
func AsSym(t Term, module, name string) (args []Term, ok bool) {
	head, args := Spine(t)
	s, isSym := head.(Sym)
	if !isSym || !s.Eq(Sym{Module: module, Name: name}) {
		return nil, false
	}
	return args, true
}

// IsSort reports whether t is Kind or TypeSort.
func IsSort(t Term) bool {
	switch t.(type) {
	case Kind, TypeSort:
		return true
	default:
		return false
	}
}
