package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/piccolo/pkg/check"
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

func sym(module, name string) term.Term { return term.Sym{Module: module, Name: name} }

func natModule(t *testing.T) *symtab.Universe {
	u := symtab.NewUniverse()
	nat := symtab.NewModule("Nat")
	require.NoError(t, nat.DeclareStatic("Nat", term.TypeSort{}, nil))
	require.NoError(t, nat.DeclareStatic("zero", sym("Nat", "Nat"), nil))
	require.NoError(t, nat.DeclareStatic("succ", term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}, nil))
	u.AddModule(nat)
	return u
}

func TestInferBaseSymbols(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	typ, err := check.Infer(u, ctx, sym("Nat", "Nat"))
	require.NoError(t, err)
	assert.Equal(t, term.TypeSort{}, typ)

	typ, err = check.Infer(u, ctx, sym("Nat", "zero"))
	require.NoError(t, err)
	assert.True(t, term.AlphaEq(typ, sym("Nat", "Nat")))
}

func TestInferApplication(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	one := term.App{Fun: sym("Nat", "succ"), Arg: sym("Nat", "zero")}
	typ, err := check.Infer(u, ctx, one)
	require.NoError(t, err)
	assert.True(t, term.AlphaEq(typ, sym("Nat", "Nat")))
}

func TestInferApplicationToNonFunction(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	bogus := term.App{Fun: sym("Nat", "zero"), Arg: sym("Nat", "zero")}
	_, err := check.Infer(u, ctx, bogus)
	require.Error(t, err)
	var nf *perr.NotAFunction
	assert.ErrorAs(t, err, &nf)
}

func TestInferAnnotatedIdentity(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	id := term.Abst{Annotation: sym("Nat", "Nat"), Body: term.Var{Index: 0}}
	typ, err := check.Infer(u, ctx, id)
	require.NoError(t, err)
	want := term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}
	assert.True(t, term.AlphaEq(typ, want))
}

func TestInferUnannotatedAbstractionFails(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	unannotated := term.Abst{Body: term.Var{Index: 0}}
	_, err := check.Infer(u, ctx, unannotated)
	require.Error(t, err)
	var ua *perr.UninferableAbstraction
	assert.ErrorAs(t, err, &ua)
}

func TestCheckUnannotatedAbstractionAgainstExpectedProd(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	unannotated := term.Abst{Body: term.Var{Index: 0}}
	expected := term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}
	require.NoError(t, check.Check(u, ctx, unannotated, expected))
}

func TestCheckRejectsMismatchedResultType(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	require.Error(t, check.Check(u, ctx, sym("Nat", "zero"), term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}))
}

// TestDependentVecCons exercises §8's dependent-vector scenario: cons's
// result index is computed by substitution, and applying it at a
// concrete length must produce that substituted type.
func TestDependentVecCons(t *testing.T) {
	u := symtab.NewUniverse()
	nat := symtab.NewModule("Nat")
	require.NoError(t, nat.DeclareStatic("Nat", term.TypeSort{}, nil))
	require.NoError(t, nat.DeclareStatic("zero", sym("Nat", "Nat"), nil))
	require.NoError(t, nat.DeclareStatic("succ", term.Prod{Domain: sym("Nat", "Nat"), Codomain: sym("Nat", "Nat")}, nil))
	u.AddModule(nat)

	vec := symtab.NewModule("Vec")
	// Vec : Nat -> Type
	require.NoError(t, vec.DeclareStatic("Vec", term.Prod{Domain: sym("Nat", "Nat"), Codomain: term.TypeSort{}}, nil))
	// cons : (n : Nat) -> Vec n -> Vec (succ n)
	consType := term.Prod{
		Domain: sym("Nat", "Nat"),
		Codomain: term.Prod{
			Domain:   term.App{Fun: sym("Vec", "Vec"), Arg: term.Var{Index: 0}},
			Codomain: term.App{Fun: sym("Vec", "Vec"), Arg: term.App{Fun: sym("Nat", "succ"), Arg: term.Var{Index: 1}}},
		},
	}
	require.NoError(t, vec.DeclareStatic("cons", consType, nil))
	// nilVec : Vec zero
	require.NoError(t, vec.DeclareStatic("nilVec", term.App{Fun: sym("Vec", "Vec"), Arg: sym("Nat", "zero")}, nil))
	u.AddModule(vec)

	ctx := check.NewContext()
	applied := term.Apply(sym("Vec", "cons"), sym("Nat", "zero"), sym("Vec", "nilVec"))
	typ, err := check.Infer(u, ctx, applied)
	require.NoError(t, err)

	want := term.App{Fun: sym("Vec", "Vec"), Arg: term.App{Fun: sym("Nat", "succ"), Arg: sym("Nat", "zero")}}
	assert.True(t, term.AlphaEq(typ, want), "got %s", typ)
}

func TestInferProdRejectsKindSortedDomain(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	// kindSorted : Nat -> Type infers to Kind, since its codomain Type
	// itself infers Kind.
	kindSorted := term.Prod{Domain: sym("Nat", "Nat"), Codomain: term.TypeSort{}}
	_, err := check.Infer(u, ctx, term.Prod{Domain: kindSorted, Codomain: sym("Nat", "Nat")})
	require.Error(t, err)
	var tm *perr.TypeMismatch
	assert.ErrorAs(t, err, &tm)
}

func TestInferAbstRejectsKindSortedAnnotation(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	kindSorted := term.Prod{Domain: sym("Nat", "Nat"), Codomain: term.TypeSort{}}
	_, err := check.Infer(u, ctx, term.Abst{Annotation: kindSorted, Body: term.Var{Index: 0}})
	require.Error(t, err)
	var tm *perr.TypeMismatch
	assert.ErrorAs(t, err, &tm)
}

func TestSortOfRejectsNonSort(t *testing.T) {
	u := natModule(t)
	ctx := check.NewContext()

	_, err := check.SortOf(u, ctx, sym("Nat", "zero"))
	require.Error(t, err)
	var se *perr.SortError
	assert.ErrorAs(t, err, &se)
}
