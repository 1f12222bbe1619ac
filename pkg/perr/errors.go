package perr

import (
	"fmt"

	"github.com/vito/piccolo/pkg/term"
)

// Located is implemented by every error kind below, exposing the
// location it carries.
type Located interface {
	error
	Location() *SourceLocation
}

// SortError: a term that should be a type or kind is neither (§4.5
// sort_of, §7).
type SortError struct {
	Term term.Term
	Got  term.Term
	Loc  *SourceLocation
}

func (e *SortError) Error() string {
	return fmt.Sprintf("%s: %s is not a sort (inferred type %s)", e.Loc, e.Term, e.Got)
}
func (e *SortError) Location() *SourceLocation { return e.Loc }

// TypeMismatch: inferred and expected types are not convertible.
type TypeMismatch struct {
	Subject  term.Term
	Inferred term.Term
	Expected term.Term
	Loc      *SourceLocation
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("%s: %s has type %s, expected %s", e.Loc, e.Subject, e.Inferred, e.Expected)
}
func (e *TypeMismatch) Location() *SourceLocation { return e.Loc }

// NotAFunction: application whose function's type does not whnf to a
// Prod.
type NotAFunction struct {
	Fun     term.Term
	FunType term.Term
	Loc     *SourceLocation
}

func (e *NotAFunction) Error() string {
	return fmt.Sprintf("%s: %s has type %s, which is not a function type", e.Loc, e.Fun, e.FunType)
}
func (e *NotAFunction) Location() *SourceLocation { return e.Loc }

// UninferableAbstraction: an unannotated λ used where a type must be
// inferred rather than checked.
type UninferableAbstraction struct {
	Abst term.Abst
	Loc  *SourceLocation
}

func (e *UninferableAbstraction) Error() string {
	return fmt.Sprintf("%s: cannot infer the type of an unannotated abstraction; it must be checked against an expected type", e.Loc)
}
func (e *UninferableAbstraction) Location() *SourceLocation { return e.Loc }

// NotAPattern: an LHS violates the pattern grammar or Miller condition,
// or a rule's arity isn't fully covered by its LHS (§3, §4.3).
type NotAPattern struct {
	Reason string
	Term   term.Term
	Loc    *SourceLocation
}

func (e *NotAPattern) Error() string {
	return fmt.Sprintf("%s: %s is not a valid pattern: %s", e.Loc, e.Term, e.Reason)
}
func (e *NotAPattern) Location() *SourceLocation { return e.Loc }

// RuleNotAdmissible: the LHS/RHS types of a candidate rule are not
// convertible under the solved meta-variable constraints (§4.6).
type RuleNotAdmissible struct {
	LHSType term.Term
	RHSType term.Term
	Loc     *SourceLocation
}

func (e *RuleNotAdmissible) Error() string {
	return fmt.Sprintf("%s: rule is not admissible: LHS has type %s but RHS has type %s, and they are not convertible", e.Loc, e.LHSType, e.RHSType)
}
func (e *RuleNotAdmissible) Location() *SourceLocation { return e.Loc }

// SymbolRedefinition: declaring a name already present. Per §7 this is
// a dispatcher-level warning, not fatal — the type still satisfies
// Located so the dispatcher can format it uniformly, but dispatch.go
// never aborts a directive because of one.
type SymbolRedefinition struct {
	Module string
	Name   string
	Loc    *SourceLocation
}

func (e *SymbolRedefinition) Error() string {
	return fmt.Sprintf("%s: %s.%s is already declared", e.Loc, e.Module, e.Name)
}
func (e *SymbolRedefinition) Location() *SourceLocation { return e.Loc }

// SymbolNotFound: a reference to an unknown (module, name) pair.
type SymbolNotFound struct {
	Module string
	Name   string
	Loc    *SourceLocation
}

func (e *SymbolNotFound) Error() string {
	return fmt.Sprintf("%s: unknown symbol %s.%s", e.Loc, e.Module, e.Name)
}
func (e *SymbolNotFound) Location() *SourceLocation { return e.Loc }

// StepBudgetExceeded is recoverable (§9): eval may raise it when a
// configured step budget runs out, but eq_modulo never does — it must
// stay total on well-typed terms in sound theories (§4.4).
type StepBudgetExceeded struct {
	Steps int
	Loc   *SourceLocation
}

func (e *StepBudgetExceeded) Error() string {
	return fmt.Sprintf("%s: exceeded step budget of %d reductions", e.Loc, e.Steps)
}
func (e *StepBudgetExceeded) Location() *SourceLocation { return e.Loc }
