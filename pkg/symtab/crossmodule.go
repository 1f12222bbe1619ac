package symtab

// ReplayCrossModuleRules re-attaches every cross-module rule a module
// declared to its home symbol's live rule list. This is the invariant
// §9 describes: "on load, the dependency table is replayed to
// re-attach rules." It is idempotent-unsafe by design — callers (the
// loader) must only invoke it once per freshly deserialised module,
// immediately after both the declaring module and every home module it
// targets have been added to the Universe.
func (u *Universe) ReplayCrossModuleRules(declarer *Module) error {
	for _, rule := range declarer.crossModuleRules {
		home, ok := u.modules[rule.Head.Module]
		if !ok {
			continue // home module not loaded in this session; the rule is skipped
		}
		if err := home.appendRule(rule.Head.Name, rule); err != nil {
			return err
		}
	}
	return nil
}
