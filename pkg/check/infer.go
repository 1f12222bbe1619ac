package check

import (
	"github.com/pkg/errors"

	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/reduce"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Infer synthesises the type of t under ctx (§4.5's infer judgement).
// t must contain no PatHole — those only ever appear in rule patterns,
// checked by a separate constraint-based routine in pkg/admit.
//
// Terms carry no source location of their own (§4.1: Term is the pure
// calculus object, not the surface AST); callers that need located
// errors wrap the ones returned here with the surface node's location
// before reporting them (pkg/dispatch does this).
func Infer(table symtab.Table, ctx *Context, t term.Term) (term.Term, error) {
	switch x := term.Unfold(t).(type) {
	case term.Kind:
		return nil, errors.New("check: Kind has no type")

	case term.TypeSort:
		return term.Kind{}, nil

	case term.Var:
		typ, ok := ctx.TypeOf(x.Index)
		if !ok {
			return nil, errors.Errorf("check: variable index %d out of scope (context has %d entries)", x.Index, ctx.Len())
		}
		return typ, nil

	case term.Sym:
		sym, ok := table.Find(x.Module, x.Name)
		if !ok {
			return nil, &perr.SymbolNotFound{Module: x.Module, Name: x.Name}
		}
		return sym.Type, nil

	case term.App:
		return inferApp(table, ctx, x)

	case term.Prod:
		return inferProd(table, ctx, x)

	case term.Abst:
		return inferAbst(table, ctx, x)

	case term.PatHole:
		return nil, errors.Errorf("check: cannot infer the type of a pattern hole ?_%d outside a rule pattern", x.Index)

	default:
		return nil, errors.Errorf("check: unhandled term shape %T", t)
	}
}

func inferApp(table symtab.Table, ctx *Context, app term.App) (term.Term, error) {
	funType, err := Infer(table, ctx, app.Fun)
	if err != nil {
		return nil, err
	}
	prod, ok := reduce.Whnf(table, funType, reduce.Unbounded).(term.Prod)
	if !ok {
		return nil, &perr.NotAFunction{Fun: app.Fun, FunType: funType}
	}
	if err := Check(table, ctx, app.Arg, prod.Domain); err != nil {
		return nil, err
	}
	return term.Subst(prod.Codomain, app.Arg), nil
}

func inferProd(table symtab.Table, ctx *Context, prod term.Prod) (term.Term, error) {
	if err := Check(table, ctx, prod.Domain, term.TypeSort{}); err != nil {
		return nil, err
	}
	codomainSort, err := SortOf(table, ctx.Extend(prod.Domain), term.Open(prod.Codomain))
	if err != nil {
		return nil, err
	}
	if _, ok := codomainSort.(term.Kind); ok {
		return term.Kind{}, nil
	}
	return term.TypeSort{}, nil
}

func inferAbst(table symtab.Table, ctx *Context, abst term.Abst) (term.Term, error) {
	if abst.Annotation == nil {
		return nil, &perr.UninferableAbstraction{Abst: abst}
	}
	if err := Check(table, ctx, abst.Annotation, term.TypeSort{}); err != nil {
		return nil, err
	}
	bodyType, err := Infer(table, ctx.Extend(abst.Annotation), term.Open(abst.Body))
	if err != nil {
		return nil, err
	}
	return term.Prod{Domain: abst.Annotation, Codomain: bodyType}, nil
}

// SortOf infers t's type and requires it to whnf to a sort (Type or
// Kind), returning that sort. Used for a Prod's codomain and for a
// declared symbol's type (pkg/dispatch); a Prod's domain and an
// abstraction's annotation are instead checked against Type.
func SortOf(table symtab.Table, ctx *Context, t term.Term) (term.Term, error) {
	typ, err := Infer(table, ctx, t)
	if err != nil {
		return nil, err
	}
	w := reduce.Whnf(table, typ, reduce.Unbounded)
	if !term.IsSort(w) {
		return nil, &perr.SortError{Term: t, Got: w}
	}
	return w, nil
}
