package symtab

import (
	"fmt"

	"github.com/vito/piccolo/pkg/perr"
)

// Universe is the re-architected "Global module table" of §9: an
// explicit value threaded through the command dispatcher rather than a
// process-wide map, with unique ownership and serialised mutation
// (guaranteed by piccolo's single-threaded core, §5). It tracks every
// loaded module and the stack of modules currently being loaded, so
// that circular `requires` can be rejected with a membership check
// rather than, say, a visited-timestamp scheme.
type Universe struct {
	modules     map[string]*Module
	loadingPath []string // stack of module names currently being loaded
}

// NewUniverse returns an empty Universe.
func NewUniverse() *Universe {
	return &Universe{modules: make(map[string]*Module)}
}

// BeginLoad pushes name onto the loading stack, returning an error if
// name is already on it (a circular `requires` chain). Callers must
// call EndLoad when loading finishes, success or not.
func (u *Universe) BeginLoad(name string) error {
	for _, n := range u.loadingPath {
		if n == name {
			return fmt.Errorf("symtab: circular module dependency: %v -> %s", u.loadingPath, name)
		}
	}
	u.loadingPath = append(u.loadingPath, name)
	return nil
}

// EndLoad pops name off the loading stack.
func (u *Universe) EndLoad(name string) {
	if n := len(u.loadingPath); n > 0 && u.loadingPath[n-1] == name {
		u.loadingPath = u.loadingPath[:n-1]
	}
}

// AddModule registers a fully-loaded module, replacing the home for
// future Find/RulesOf calls. It does not itself check for circularity;
// call BeginLoad/EndLoad around the work that produces module.
func (u *Universe) AddModule(module *Module) {
	u.modules[module.Name] = module
}

// Module returns the named module, or nil if it has not been loaded.
func (u *Universe) Module(name string) (*Module, bool) {
	m, ok := u.modules[name]
	return m, ok
}

// Find looks up (module, name). If module is empty, every loaded
// module is searched and the first match in map iteration order is
// returned, so which module wins when several declare name is not
// defined. Symbols built by the parser always carry an explicit module.
func (u *Universe) Find(module, name string) (*Symbol, bool) {
	if module != "" {
		m, ok := u.modules[module]
		if !ok {
			return nil, false
		}
		return m.Find(module, name)
	}
	for _, m := range u.modules {
		if s, ok := m.Find(m.Name, name); ok {
			return s, true
		}
	}
	return nil, false
}

// RulesOf returns the current rule list for ref, wherever ref's home
// module lives.
func (u *Universe) RulesOf(ref Ref) []*Rule {
	m, ok := u.modules[ref.Module]
	if !ok {
		return nil
	}
	return m.RulesOf(ref)
}

// AdmitRule appends rule to its Head symbol's rule list, gated by the
// caller having already run the §4.6 admissibility check (pkg/admit).
// Per §9 "Cross-module rule attachment", when rule.Declarer differs from
// rule.Head.Module, the rule is recorded in two places: the declaring
// module's dependency table (so a later Load can replay it, see
// pkg/loader) and the home symbol's live rule list (so the reducer sees
// it immediately, in this process).
func (u *Universe) AdmitRule(rule *Rule) error {
	home, ok := u.modules[rule.Head.Module]
	if !ok {
		return &perr.SymbolNotFound{Module: rule.Head.Module, Name: rule.Head.Name}
	}
	if err := home.appendRule(rule.Head.Name, rule); err != nil {
		return err
	}
	if rule.Declarer != "" && rule.Declarer != rule.Head.Module {
		declarer, ok := u.modules[rule.Declarer]
		if ok {
			declarer.crossModuleRules = append(declarer.crossModuleRules, rule)
		}
	}
	return nil
}

var _ Table = (*Universe)(nil)
