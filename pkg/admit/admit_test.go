package admit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/piccolo/pkg/admit"
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

func sym(module, name string) term.Term { return term.Sym{Module: module, Name: name} }

func natModule(t *testing.T) (*symtab.Universe, *symtab.Module) {
	u := symtab.NewUniverse()
	nat := symtab.NewModule("Nat")
	require.NoError(t, nat.DeclareStatic("Nat", term.TypeSort{}, nil))
	require.NoError(t, nat.DeclareStatic("zero", sym("Nat", "Nat"), nil))
	require.NoError(t, nat.DeclareStatic("succ", term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}, nil))
	plusType := term.Prod{Domain: sym("Nat", "Nat"), Codomain: term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}}
	require.NoError(t, nat.DeclareDefinable("plus", plusType, nil))
	u.AddModule(nat)
	return u, nat
}

func TestAdmitZeroCaseRule(t *testing.T) {
	u, nat := natModule(t)
	head, ok := nat.Find("Nat", "plus")
	require.True(t, ok)

	rule := &symtab.Rule{
		Head:     symtab.Ref{Module: "Nat", Name: "plus"},
		Arity:    1,
		LHSArgs:  []term.Term{sym("Nat", "zero"), term.PatHole{Index: 0}},
		RHS:      term.PatHole{Index: 0},
		Declarer: "Nat",
	}
	assert.NoError(t, admit.Check(u, head, rule))
}

func TestAdmitSuccCaseRule(t *testing.T) {
	u, nat := natModule(t)
	head, ok := nat.Find("Nat", "plus")
	require.True(t, ok)

	rule := &symtab.Rule{
		Head:  symtab.Ref{Module: "Nat", Name: "plus"},
		Arity: 2,
		LHSArgs: []term.Term{
			term.App{Fun: sym("Nat", "succ"), Arg: term.PatHole{Index: 0}},
			term.PatHole{Index: 1},
		},
		RHS: term.App{
			Fun: sym("Nat", "succ"),
			Arg: term.Apply(sym("Nat", "plus"), term.PatHole{Index: 0}, term.PatHole{Index: 1}),
		},
		Declarer: "Nat",
	}
	assert.NoError(t, admit.Check(u, head, rule))
}

func TestRejectsRuleWithMismatchedResultType(t *testing.T) {
	u, nat := natModule(t)
	head, ok := nat.Find("Nat", "plus")
	require.True(t, ok)

	rule := &symtab.Rule{
		Head:     symtab.Ref{Module: "Nat", Name: "plus"},
		Arity:    1,
		LHSArgs:  []term.Term{sym("Nat", "zero"), term.PatHole{Index: 0}},
		RHS:      sym("Nat", "Nat"), // a type, not a Nat value: wrong result type
		Declarer: "Nat",
	}
	err := admit.Check(u, head, rule)
	require.Error(t, err)
	var na *perr.RuleNotAdmissible
	assert.ErrorAs(t, err, &na)
}

func TestRejectsHigherOrderHoleAppliedToNonVariable(t *testing.T) {
	u, nat := natModule(t)
	ho := symtab.NewModule("HO")
	applyType := term.Prod{
		Domain:   term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")},
		Codomain: sym("Nat", "Nat"),
	}
	require.NoError(t, ho.DeclareDefinable("applyToZero", applyType, nil))
	u.AddModule(ho)
	_ = nat

	head, ok := ho.Find("HO", "applyToZero")
	require.True(t, ok)

	rule := &symtab.Rule{
		Head:  symtab.Ref{Module: "HO", Name: "applyToZero"},
		Arity: 1,
		LHSArgs: []term.Term{
			// should be App{Hole0, Var{0}}; applying to a constant instead
			// of the bound variable violates the Miller condition.
			term.Abst{Body: term.App{Fun: term.PatHole{Index: 0}, Arg: sym("Nat", "zero")}},
		},
		RHS:      sym("Nat", "zero"),
		Declarer: "HO",
	}
	err := admit.Check(u, head, rule)
	require.Error(t, err)
	var np *perr.NotAPattern
	assert.ErrorAs(t, err, &np)
}

func TestAdmitsHigherOrderPatternRule(t *testing.T) {
	u, _ := natModule(t)
	ho := symtab.NewModule("HO")
	applyType := term.Prod{
		Domain:   term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")},
		Codomain: sym("Nat", "Nat"),
	}
	require.NoError(t, ho.DeclareDefinable("applyToZero", applyType, nil))
	u.AddModule(ho)

	head, ok := ho.Find("HO", "applyToZero")
	require.True(t, ok)

	rule := &symtab.Rule{
		Head:  symtab.Ref{Module: "HO", Name: "applyToZero"},
		Arity: 1,
		LHSArgs: []term.Term{
			term.Abst{Body: term.App{Fun: term.PatHole{Index: 0}, Arg: term.Var{Index: 0}}},
		},
		RHS:      term.App{Fun: term.PatHole{Index: 0}, Arg: sym("Nat", "zero")},
		Declarer: "HO",
	}
	assert.NoError(t, admit.Check(u, head, rule))
}
