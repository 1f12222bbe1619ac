package surface

import (
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Directive is one parsed top-level form (spec.md §6's directive
// table). The dispatcher (pkg/dispatch) switches on the concrete type.
type Directive interface {
	Location() *perr.SourceLocation
}

// DeclareStatic corresponds to "declare static x : A".
type DeclareStatic struct {
	Module string
	Name   string
	Type   term.Term
	Loc    *perr.SourceLocation
}

func (d *DeclareStatic) Location() *perr.SourceLocation { return d.Loc }

// DeclareDefinable corresponds to "declare definable x : A".
type DeclareDefinable struct {
	Module string
	Name   string
	Type   term.Term
	Loc    *perr.SourceLocation
}

func (d *DeclareDefinable) Location() *perr.SourceLocation { return d.Loc }

// AddRule corresponds to "add rules R" for a single candidate rule.
// Rule.Declarer is always the module the directive was parsed in.
type AddRule struct {
	Rule *symtab.Rule
	Loc  *perr.SourceLocation
}

func (d *AddRule) Location() *perr.SourceLocation { return d.Loc }

// Infer corresponds to "infer t".
type Infer struct {
	Term term.Term
	Loc  *perr.SourceLocation
}

func (d *Infer) Location() *perr.SourceLocation { return d.Loc }

// EvalMode selects whnf vs snf for an Eval directive.
type EvalMode int

const (
	EvalWHNF EvalMode = iota
	EvalSNF
)

// Eval corresponds to "eval t with config c" (SPEC_FULL.md §4 SUPPLEMENTED FEATURES'
// --step-budget, realised here as a per-directive "with budget N").
type Eval struct {
	Term   term.Term
	Mode   EvalMode
	Budget int // 0 means unbounded
	Loc    *perr.SourceLocation
}

func (d *Eval) Location() *perr.SourceLocation { return d.Loc }

// ConvAssertion is "t ≡ u"; TypeAssertion is "t : A" — the two forms
// "assert"/"check" accept per §6's directive table.
type ConvAssertion struct{ Left, Right term.Term }
type TypeAssertion struct{ Subject, Type term.Term }

// Assertion is shared by "assert" (Asserting = true, fatal on failure)
// and non-asserting "check" (Asserting = false, warns only, §7).
// Exactly one of Conv/Typing is non-nil.
type Assertion struct {
	Conv      *ConvAssertion
	Typing    *TypeAssertion
	Asserting bool
	Loc       *perr.SourceLocation
}

func (d *Assertion) Location() *perr.SourceLocation { return d.Loc }
