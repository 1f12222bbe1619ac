package objfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vito/piccolo/pkg/objfile"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

func natModule() *symtab.Module {
	m := symtab.NewModule("Nat")
	_ = m.DeclareStatic("Nat", term.TypeSort{}, nil)
	_ = m.DeclareStatic("zero", term.Sym{Module: "Nat", Name: "Nat"}, nil)
	_ = m.DeclareStatic("succ", term.Prod{
		Domain:   term.Sym{Module: "Nat", Name: "Nat"},
		Codomain: term.Sym{Module: "Nat", Name: "Nat"},
	}, nil)
	_ = m.DeclareDefinable("plus", term.Prod{
		Domain: term.Sym{Module: "Nat", Name: "Nat"},
		Codomain: term.Prod{
			Domain:   term.Sym{Module: "Nat", Name: "Nat"},
			Codomain: term.Sym{Module: "Nat", Name: "Nat"},
		},
	}, nil)
	plus, _ := m.Find("Nat", "plus")
	plus.Rules = append(plus.Rules, &symtab.Rule{
		Head:     symtab.Ref{Module: "Nat", Name: "plus"},
		Arity:    1,
		LHSArgs:  []term.Term{term.Sym{Module: "Nat", Name: "zero"}, term.PatHole{Index: 0}},
		RHS:      term.PatHole{Index: 0},
		Declarer: "Nat",
	})
	return m
}

func TestEncodeDecodeRoundTripsSymbolsAndRules(t *testing.T) {
	m := natModule()

	data, err := objfile.Encode(m)
	require.NoError(t, err)

	decoded, err := objfile.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, "Nat", decoded.Name)

	plus, ok := decoded.Find("Nat", "plus")
	require.True(t, ok)
	require.Len(t, plus.Rules, 1)
	rule := plus.Rules[0]
	assert.Equal(t, 1, rule.Arity)
	assert.True(t, term.AlphaEq(rule.RHS, term.PatHole{Index: 0}))

	zero, ok := decoded.Find("Nat", "zero")
	require.True(t, ok)
	assert.True(t, term.AlphaEq(zero.Type, term.Sym{Module: "Nat", Name: "Nat"}))
	assert.Equal(t, symtab.Static, zero.Tag)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	data, err := objfile.Encode(natModule())
	require.NoError(t, err)
	corrupt := append([]byte(nil), data...)
	corrupt[0] = 'X'

	_, err = objfile.Decode(corrupt)
	assert.Error(t, err)
}

func TestDecodeRejectsFutureMajorVersion(t *testing.T) {
	data, err := objfile.Encode(natModule())
	require.NoError(t, err)
	corrupt := append([]byte(nil), data...)
	// major version occupies the two bytes immediately after the 8-byte magic
	corrupt[8] = 0xFF
	corrupt[9] = 0xFF

	_, err = objfile.Decode(corrupt)
	assert.Error(t, err)
}

func TestFilenameDerivesSnakeCaseFromModulePath(t *testing.T) {
	assert.Equal(t, "nat.pco", objfile.Filename("Nat"))
	assert.Equal(t, "std_vec.pco", objfile.Filename("StdVec"))
}

func TestCrossModuleRulesSurviveRoundTrip(t *testing.T) {
	m := symtab.NewModule("Client")
	m.Requires = []string{"Nat"}
	m.SetCrossModuleRules([]*symtab.Rule{{
		Head:     symtab.Ref{Module: "Nat", Name: "plus"},
		Arity:    1,
		LHSArgs:  []term.Term{term.Sym{Module: "Nat", Name: "zero"}, term.PatHole{Index: 0}},
		RHS:      term.PatHole{Index: 0},
		Declarer: "Client",
	}})

	data, err := objfile.Encode(m)
	require.NoError(t, err)

	decoded, err := objfile.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nat"}, decoded.Requires)
	require.Len(t, decoded.CrossModuleRules(), 1)
	assert.Equal(t, "Client", decoded.CrossModuleRules()[0].Declarer)
}
