package objfile

import "github.com/vito/piccolo/pkg/term"

// compiledTerms lists every concrete term.Term variant that can appear
// behind an interface-typed field of CompiledModule (Symbol.Type,
// Rule.LHSArgs, Rule.RHS). encoding/gob needs each one registered
// before it will encode or decode a value stored behind term.Term,
// the same requirement Consensys-go-corset sidesteps by keeping its
// Attribute values behind a type-parameterised accessor rather than a
// plain interface; piccolo has no such escape hatch, since term.Term
// is deliberately a closed sum type of eight shapes (pkg/term/term.go).
func compiledTerms() []any {
	return []any{
		term.Kind{},
		term.TypeSort{},
		term.Var{},
		term.Sym{},
		term.App{},
		term.Prod{},
		term.Abst{},
		term.PatHole{},
	}
}
