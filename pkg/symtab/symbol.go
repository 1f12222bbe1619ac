// Package symtab implements the read-only symbol table abstraction of
// spec.md §3/§6 and the mutation interface that admits new symbols and
// rules, plus the "Global module table" of §9 reified as an explicit
// Universe value instead of a process-wide map with a loading stack.
//
// Modeled on pkg/dang/env.go's Module struct: a named scope holding
// per-kind maps, generalised here from a single lexical environment
// chain to a table of symbols each carrying its own rule list.
package symtab

import (
	"fmt"

	"github.com/vito/piccolo/pkg/term"
)

// Tag distinguishes static symbols (rigid constructors, no rules) from
// definable ones (fixed type plus a monotonically growing rule list).
type Tag int

const (
	Static Tag = iota
	Definable
)

func (t Tag) String() string {
	if t == Static {
		return "static"
	}
	return "definable"
}

// Rule is a first-order-pattern-with-higher-order-holes rewrite rule
// (§3). Head identifies the definable symbol it rewrites; Arity is the
// number of meta-variables the pattern binds; LHSArgs are patterns (see
// pkg/reduce for the matcher that interprets them); RHS is the
// replacement, whose free meta-variables must be exactly
// {0..Arity-1}.
type Rule struct {
	Head     Ref
	Arity    int
	LHSArgs  []term.Term
	RHS      term.Term
	Declarer string // module that declared this rule (may differ from Head.Module)
}

// Ref identifies a symbol by (module, name).
type Ref struct {
	Module string
	Name   string
}

func (r Ref) String() string { return r.Module + "." + r.Name }

func (r Ref) Sym() term.Sym { return term.Sym{Module: r.Module, Name: r.Name} }

// Symbol is an identified, typed constant (§3). Rules is nil/empty for
// Static symbols and append-only for Definable ones; no rule is ever
// removed once admitted.
type Symbol struct {
	Ref  Ref
	Type term.Term // closed term, itself of type Type or Kind
	Tag  Tag
	// Rules holds the ordered rule list for a Definable symbol. Reducer
	// code must always go through Table.RulesOf rather than reading this
	// field so that cross-module attachment (symtab/crossmodule.go)
	// behaves uniformly whether the caller asks the home module or a
	// module that merely depends on it.
	Rules []*Rule
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s : %s", s.Tag, s.Ref, s.Type)
}
