// Package dispatch wires the six directive forms of spec.md §6 to the
// core: sort-checking a declaration's type, admitting a rule, inferring
// or reducing a term, and checking or asserting convertibility/typing.
// Every core package (term, symtab, reduce, check, admit) stays silent
// and pure; this is the one package that logs (via log/slog, exactly as
// cmd/dang/main.go's own run/runREPL wire their handler) and decides,
// per §7, whether a failure warns or aborts the whole run.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vito/piccolo/pkg/admit"
	"github.com/vito/piccolo/pkg/check"
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/reduce"
	"github.com/vito/piccolo/pkg/surface"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Dispatcher executes directives against a single module under
// construction, with universe supplying every symbol that module's
// dependencies (already loaded by pkg/loader) make visible.
type Dispatcher struct {
	Universe *symtab.Universe
	Module   *symtab.Module
	Log      *slog.Logger
}

// New returns a Dispatcher targeting module, which must already be
// registered on universe (pkg/loader.LoadDependencies attaches every
// dependency; the module currently being built is the caller's job to
// create and add before running its own directives).
func New(universe *symtab.Universe, module *symtab.Module, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{Universe: universe, Module: module, Log: log}
}

// Run executes dirs in order. A directive whose failure §7 marks as a
// warning (SymbolRedefinition, or a non-asserting check) is logged and
// skipped; anything else aborts the whole run immediately, matching
// §5's cancellation rule ("operations either complete or abort the
// whole run with a fatal error").
func (d *Dispatcher) Run(dirs []surface.Directive) error {
	for _, dir := range dirs {
		err := d.dispatchOne(dir)
		if err == nil {
			continue
		}
		err = withLocation(err, dir.Location())
		if warnOnly(dir, err) {
			d.Log.Warn(err.Error())
			continue
		}
		return err
	}
	return nil
}

func warnOnly(dir surface.Directive, err error) bool {
	var redef *perr.SymbolRedefinition
	if errors.As(err, &redef) {
		return true
	}
	if a, ok := dir.(*surface.Assertion); ok && !a.Asserting {
		return true
	}
	return false
}

func (d *Dispatcher) dispatchOne(dir surface.Directive) error {
	switch x := dir.(type) {
	case *surface.DeclareStatic:
		return d.declareStatic(x)
	case *surface.DeclareDefinable:
		return d.declareDefinable(x)
	case *surface.AddRule:
		return d.addRule(x)
	case *surface.Infer:
		return d.infer(x)
	case *surface.Eval:
		return d.eval(x)
	case *surface.Assertion:
		return d.assertion(x)
	default:
		return fmt.Errorf("dispatch: unhandled directive %T", dir)
	}
}

func (d *Dispatcher) declareStatic(x *surface.DeclareStatic) error {
	ctx := check.NewContext()
	if _, err := check.SortOf(d.Universe, ctx, x.Type); err != nil {
		return err
	}
	if err := d.Module.DeclareStatic(x.Name, x.Type, x.Loc); err != nil {
		return err
	}
	d.Log.Info("declared static symbol", "module", x.Module, "name", x.Name)
	return nil
}

func (d *Dispatcher) declareDefinable(x *surface.DeclareDefinable) error {
	ctx := check.NewContext()
	if _, err := check.SortOf(d.Universe, ctx, x.Type); err != nil {
		return err
	}
	if err := d.Module.DeclareDefinable(x.Name, x.Type, x.Loc); err != nil {
		return err
	}
	d.Log.Info("declared definable symbol", "module", x.Module, "name", x.Name)
	return nil
}

func (d *Dispatcher) addRule(x *surface.AddRule) error {
	head, ok := d.Universe.Find(x.Rule.Head.Module, x.Rule.Head.Name)
	if !ok {
		return &perr.SymbolNotFound{Module: x.Rule.Head.Module, Name: x.Rule.Head.Name, Loc: x.Loc}
	}
	if err := admit.Check(d.Universe, head, x.Rule); err != nil {
		return err
	}
	if err := d.Universe.AdmitRule(x.Rule); err != nil {
		return err
	}
	d.Log.Info("admitted rule", "head", x.Rule.Head.String(), "arity", x.Rule.Arity)
	return nil
}

func (d *Dispatcher) infer(x *surface.Infer) error {
	ctx := check.NewContext()
	typ, err := check.Infer(d.Universe, ctx, x.Term)
	if err != nil {
		return err
	}
	result := reduce.Snf(d.Universe, typ, reduce.Unbounded)
	d.Log.Info("inferred type", "term", x.Term.String(), "type", result.String())
	return nil
}

func (d *Dispatcher) eval(x *surface.Eval) error {
	ctx := check.NewContext()
	if _, err := check.Infer(d.Universe, ctx, x.Term); err != nil {
		return err
	}

	cfg := reduce.Config{MaxSteps: x.Budget}
	var result term.Term
	var exhausted bool
	if x.Mode == surface.EvalWHNF {
		result, exhausted = reduce.WhnfBudgeted(d.Universe, x.Term, cfg)
	} else {
		result, exhausted = reduce.SnfBudgeted(d.Universe, x.Term, cfg)
	}
	if exhausted {
		return &perr.StepBudgetExceeded{Steps: x.Budget, Loc: x.Loc}
	}
	d.Log.Info("evaluated term", "term", x.Term.String(), "result", result.String())
	return nil
}

func (d *Dispatcher) assertion(x *surface.Assertion) error {
	ctx := check.NewContext()
	switch {
	case x.Conv != nil:
		if !reduce.EqModulo(d.Universe, x.Conv.Left, x.Conv.Right) {
			return &perr.TypeMismatch{Subject: x.Conv.Left, Inferred: x.Conv.Left, Expected: x.Conv.Right, Loc: x.Loc}
		}
	case x.Typing != nil:
		if err := check.Check(d.Universe, ctx, x.Typing.Subject, x.Typing.Type); err != nil {
			return err
		}
	}
	return nil
}

// withLocation fills in loc on err if err is a *perr kind whose own
// Loc field is nil — pkg/check and pkg/admit never know a directive's
// source position, so the dispatcher is where that gets attached.
func withLocation(err error, loc *perr.SourceLocation) error {
	if loc == nil {
		return err
	}
	switch e := err.(type) {
	case *perr.SortError:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.TypeMismatch:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.NotAFunction:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.UninferableAbstraction:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.NotAPattern:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.RuleNotAdmissible:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.SymbolRedefinition:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.SymbolNotFound:
		if e.Loc == nil {
			e.Loc = loc
		}
	case *perr.StepBudgetExceeded:
		if e.Loc == nil {
			e.Loc = loc
		}
	}
	return err
}
