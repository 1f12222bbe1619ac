// Package admit implements rule admissibility checking (spec.md §4.6):
// given a candidate rewrite rule and the declared type of the symbol it
// rewrites, infer a type for each meta-variable from where it occurs in
// the left-hand side, use that assignment to type the right-hand side,
// and require the two resulting types convertible before the rule may
// be admitted to the symbol's rule list.
package admit

import (
	"fmt"

	"github.com/vito/piccolo/pkg/check"
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/reduce"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// MetaTypes maps a rule's meta-variable indices (the k in PatHole(k))
// to the type inferred for them from the left-hand side.
type MetaTypes map[int]term.Term

// Check decides whether rule is admissible against head's declared
// type. It does not append the rule anywhere — callers that accept the
// result call symtab.Universe.AdmitRule themselves (pkg/dispatch).
func Check(table symtab.Table, head *symtab.Symbol, rule *symtab.Rule) error {
	ctx := check.NewContext()
	metaTypes := MetaTypes{}
	funcType := head.Type

	for _, pat := range rule.LHSArgs {
		prod, ok := reduce.Whnf(table, funcType, reduce.Unbounded).(term.Prod)
		if !ok {
			return &perr.NotAPattern{Reason: "rule has more arguments than the symbol's declared arity", Term: pat}
		}
		if err := bindPatternAgainst(table, ctx, metaTypes, pat, prod.Domain); err != nil {
			return err
		}
		funcType = term.Subst(prod.Codomain, pat)
	}
	lhsType := funcType

	for k := 0; k < rule.Arity; k++ {
		if _, ok := metaTypes[k]; !ok {
			return &perr.NotAPattern{Reason: fmt.Sprintf("meta-variable ?_%d does not occur in the left-hand side", k), Term: rule.RHS}
		}
	}

	rhsType, err := inferWithMeta(table, ctx, metaTypes, rule.RHS)
	if err != nil {
		return err
	}

	if !reduce.EqModulo(table, lhsType, rhsType) {
		return &perr.RuleNotAdmissible{LHSType: lhsType, RHSType: rhsType}
	}
	return nil
}

// bindPatternAgainst walks a single left-hand-side pattern against its
// expected type, recording each meta-variable's type the first time it
// is seen (and requiring agreement on repeat occurrences), descending
// into function-patterns (a literal Abst in the pattern) by extending
// ctx exactly as check.Check does for an unannotated abstraction.
func bindPatternAgainst(table symtab.Table, ctx *check.Context, metaTypes MetaTypes, pat, expected term.Term) error {
	head, args := term.Spine(term.Unfold(pat))

	if hole, ok := head.(term.PatHole); ok {
		if len(args) == 0 {
			return bindMetaType(table, metaTypes, hole.Index, expected)
		}
		return bindHigherOrderMetaType(table, ctx, metaTypes, hole.Index, args, expected)
	}

	if abst, ok := head.(term.Abst); ok && len(args) == 0 {
		prod, isProd := reduce.Whnf(table, expected, reduce.Unbounded).(term.Prod)
		if !isProd {
			return &perr.NotAPattern{Reason: "function pattern used where the declared type is not a function type", Term: pat}
		}
		if abst.Annotation != nil && !reduce.EqModulo(table, abst.Annotation, prod.Domain) {
			return &perr.NotAPattern{Reason: "pattern annotation does not match the declared domain", Term: pat}
		}
		return bindPatternAgainst(table, ctx.Extend(prod.Domain), metaTypes, term.Open(abst.Body), term.Open(prod.Codomain))
	}

	actual, err := inferPatternType(table, ctx, metaTypes, pat)
	if err != nil {
		return err
	}
	if !reduce.EqModulo(table, actual, expected) {
		return &perr.RuleNotAdmissible{LHSType: actual, RHSType: expected}
	}
	return nil
}

// inferPatternType infers the type of an arbitrary left-hand-side
// pattern, recursing down its application spine and binding any
// meta-variable occurrences it encounters in argument position along
// the way. A pattern with no PatHole/Abst anywhere in it types exactly
// as check.Infer would type it.
func inferPatternType(table symtab.Table, ctx *check.Context, metaTypes MetaTypes, pat term.Term) (term.Term, error) {
	head, args := term.Spine(term.Unfold(pat))
	if len(args) == 0 {
		return check.Infer(table, ctx, pat)
	}

	result, err := inferPatternType(table, ctx, metaTypes, head)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		prod, ok := reduce.Whnf(table, result, reduce.Unbounded).(term.Prod)
		if !ok {
			return nil, &perr.NotAFunction{Fun: head, FunType: result}
		}
		if err := bindPatternAgainst(table, ctx, metaTypes, a, prod.Domain); err != nil {
			return nil, err
		}
		result = term.Subst(prod.Codomain, a)
	}
	return result, nil
}

func bindMetaType(table symtab.Table, metaTypes MetaTypes, idx int, expected term.Term) error {
	if existing, ok := metaTypes[idx]; ok {
		if !reduce.EqModulo(table, existing, expected) {
			return &perr.RuleNotAdmissible{LHSType: existing, RHSType: expected}
		}
		return nil
	}
	metaTypes[idx] = expected
	return nil
}

// bindHigherOrderMetaType types a meta-variable applied to a list of
// distinct bound variables (the Miller pattern condition, enforced
// here — a non-variable argument or a repeated variable is rejected
// outright rather than admitted and left for the matcher to fail on
// every use). The meta-variable's type is the product of the applied
// variables' own types (assumed non-dependent on each other — piccolo
// does not support a rule parameter's type depending on a
// later-applied one) ending in expected, closed over the same indices
// term.AbstractIndices closes over when the matcher builds the
// corresponding binding.
func bindHigherOrderMetaType(table symtab.Table, ctx *check.Context, metaTypes MetaTypes, idx int, args []term.Term, expected term.Term) error {
	indices := make([]int, len(args))
	varTypes := make([]term.Term, len(args))
	seen := make(map[int]bool, len(args))

	for i, a := range args {
		v, ok := a.(term.Var)
		if !ok {
			return &perr.NotAPattern{Reason: "meta-variable applied to a non-variable argument", Term: a}
		}
		if seen[v.Index] {
			return &perr.NotAPattern{Reason: "meta-variable applied to the same variable twice", Term: a}
		}
		seen[v.Index] = true
		vt, ok := ctx.TypeOf(v.Index)
		if !ok {
			return &perr.NotAPattern{Reason: "meta-variable applied to a variable out of scope", Term: a}
		}
		indices[i] = v.Index
		varTypes[i] = vt
	}

	holeType := term.AbstractIndices(expected, indices)
	for i := len(indices) - 1; i >= 0; i-- {
		holeType = term.Prod{Domain: varTypes[i], Codomain: holeType}
	}
	return bindMetaType(table, metaTypes, idx, holeType)
}

// inferWithMeta infers the type of a right-hand-side term that may
// contain PatHole occurrences, resolving each one against metaTypes
// (already fully populated by Check's left-hand-side pass by the time
// this runs).
func inferWithMeta(table symtab.Table, ctx *check.Context, metaTypes MetaTypes, t term.Term) (term.Term, error) {
	switch x := term.Unfold(t).(type) {
	case term.PatHole:
		typ, ok := metaTypes[x.Index]
		if !ok {
			return nil, &perr.NotAPattern{Reason: "meta-variable used on the right-hand side does not occur on the left", Term: t}
		}
		return typ, nil

	case term.App:
		funType, err := inferWithMeta(table, ctx, metaTypes, x.Fun)
		if err != nil {
			return nil, err
		}
		prod, ok := reduce.Whnf(table, funType, reduce.Unbounded).(term.Prod)
		if !ok {
			return nil, &perr.NotAFunction{Fun: x.Fun, FunType: funType}
		}
		if err := checkWithMeta(table, ctx, metaTypes, x.Arg, prod.Domain); err != nil {
			return nil, err
		}
		return term.Subst(prod.Codomain, x.Arg), nil

	case term.Abst:
		if x.Annotation == nil {
			return nil, &perr.UninferableAbstraction{Abst: x}
		}
		bodyType, err := inferWithMeta(table, ctx.Extend(x.Annotation), metaTypes, term.Open(x.Body))
		if err != nil {
			return nil, err
		}
		return term.Prod{Domain: x.Annotation, Codomain: bodyType}, nil

	default:
		return check.Infer(table, ctx, t)
	}
}

func checkWithMeta(table symtab.Table, ctx *check.Context, metaTypes MetaTypes, t, expected term.Term) error {
	if hole, ok := term.Unfold(t).(term.PatHole); ok {
		typ, bound := metaTypes[hole.Index]
		if !bound {
			return &perr.NotAPattern{Reason: "meta-variable used on the right-hand side does not occur on the left", Term: t}
		}
		if !reduce.EqModulo(table, typ, expected) {
			return &perr.TypeMismatch{Subject: t, Inferred: typ, Expected: expected}
		}
		return nil
	}
	inferred, err := inferWithMeta(table, ctx, metaTypes, t)
	if err != nil {
		return err
	}
	if !reduce.EqModulo(table, inferred, expected) {
		return &perr.TypeMismatch{Subject: t, Inferred: inferred, Expected: expected}
	}
	return nil
}
