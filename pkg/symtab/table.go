package symtab

import (
	"fmt"
	"sort"

	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/term"
)

// Table is the read-only view spec.md §6 describes: lookup by
// (module, name), the tag of a symbol, and the current rule list of a
// definable symbol. Universe implements Table across every loaded
// module; a single Module also implements it in isolation, over its own
// symbols only.
type Table interface {
	Find(module, name string) (*Symbol, bool)
	RulesOf(ref Ref) []*Rule
}

// Module is a single named symbol scope: the symbols it declares
// itself. Cross-module visibility (a module seeing symbols declared by
// the modules it depends on) is Universe's job, not Module's — compare
// pkg/dang/env.go's Module, which instead chains scopes via a Parent
// pointer; piccolo's Universe plays that role explicitly (symtab/universe.go).
type Module struct {
	Name    string
	Symbols map[string]*Symbol
	// Requires lists the modules this one depends on, in declaration
	// order — consulted by Universe.Find for transitive lookup and by
	// the loader (pkg/loader) to replay cross-module rules on load (§9).
	Requires []string
	// crossModuleRules holds the rules this module declared for symbols
	// owned by a *different* module, so that serialising this module
	// (pkg/objfile) captures them and a later load can re-attach them to
	// their home symbol (§9 "Cross-module rule attachment").
	crossModuleRules []*Rule
}

// CrossModuleRules returns the rules this module declared for symbols it
// does not itself own, in admission order.
func (m *Module) CrossModuleRules() []*Rule {
	return m.crossModuleRules
}

// SetCrossModuleRules restores a module's cross-module rule table after
// deserialisation (pkg/objfile), ready for Universe.ReplayCrossModuleRules
// to re-attach each rule to its home symbol.
func (m *Module) SetCrossModuleRules(rules []*Rule) {
	m.crossModuleRules = rules
}

// NewModule creates an empty module named name.
func NewModule(name string) *Module {
	return &Module{Name: name, Symbols: make(map[string]*Symbol)}
}

func (m *Module) Find(module, name string) (*Symbol, bool) {
	if module != "" && module != m.Name {
		return nil, false
	}
	s, ok := m.Symbols[name]
	return s, ok
}

func (m *Module) RulesOf(ref Ref) []*Rule {
	s, ok := m.Symbols[ref.Name]
	if !ok || s.Ref.Module != ref.Module {
		return nil
	}
	return s.Rules
}

// DeclareStatic adds a new static symbol with the given (already
// sort-checked) type. Returns a *perr.SymbolRedefinition (non-fatal per
// §7) if the name is already declared in this module; the existing
// symbol is left untouched.
func (m *Module) DeclareStatic(name string, typ term.Term, loc *perr.SourceLocation) error {
	return m.declare(name, Static, typ, loc)
}

// DeclareDefinable adds a new definable symbol with an empty rule list.
func (m *Module) DeclareDefinable(name string, typ term.Term, loc *perr.SourceLocation) error {
	return m.declare(name, Definable, typ, loc)
}

func (m *Module) declare(name string, tag Tag, typ term.Term, loc *perr.SourceLocation) error {
	if _, exists := m.Symbols[name]; exists {
		return &perr.SymbolRedefinition{Module: m.Name, Name: name, Loc: loc}
	}
	m.Symbols[name] = &Symbol{Ref: Ref{Module: m.Name, Name: name}, Type: typ, Tag: tag}
	return nil
}

// appendRule appends rule to the named definable symbol's rule list
// without any admissibility checking — §4.6 gates this at the
// dispatcher/admit layer, not here. Used both by direct local admission
// and by cross-module replay (crossmodule.go).
func (m *Module) appendRule(name string, rule *Rule) error {
	s, ok := m.Symbols[name]
	if !ok {
		return &perr.SymbolNotFound{Module: m.Name, Name: name}
	}
	if s.Tag != Definable {
		return fmt.Errorf("symtab: %s.%s is static, rules cannot be added to it", m.Name, name)
	}
	s.Rules = append(s.Rules, rule)
	return nil
}

// Names returns the module's declared symbol names in sorted order.
func (m *Module) Names() []string {
	names := make([]string, 0, len(m.Symbols))
	for n := range m.Symbols {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (m *Module) String() string {
	return fmt.Sprintf("module %s (%d symbols)", m.Name, len(m.Symbols))
}
