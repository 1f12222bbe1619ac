package check

import (
	"github.com/vito/piccolo/pkg/perr"
	"github.com/vito/piccolo/pkg/reduce"
	"github.com/vito/piccolo/pkg/symtab"
	"github.com/vito/piccolo/pkg/term"
)

// Check verifies that t has type expected under ctx (§4.5's check
// judgement). An unannotated abstraction is only ever typeable this
// way: Check pushes expected's domain down as the annotation Infer
// would otherwise have demanded. Every other shape falls back to
// inferring its type and requiring convertibility with expected.
func Check(table symtab.Table, ctx *Context, t term.Term, expected term.Term) error {
	if abst, ok := term.Unfold(t).(term.Abst); ok {
		prod, isProd := reduce.Whnf(table, expected, reduce.Unbounded).(term.Prod)
		if isProd {
			if abst.Annotation != nil {
				if !reduce.EqModulo(table, abst.Annotation, prod.Domain) {
					return &perr.TypeMismatch{Subject: abst.Annotation, Inferred: abst.Annotation, Expected: prod.Domain}
				}
			}
			return Check(table, ctx.Extend(prod.Domain), term.Open(abst.Body), term.Open(prod.Codomain))
		}
		if abst.Annotation == nil {
			return &perr.UninferableAbstraction{Abst: abst}
		}
	}

	inferred, err := Infer(table, ctx, t)
	if err != nil {
		return err
	}
	if !reduce.EqModulo(table, inferred, expected) {
		return &perr.TypeMismatch{Subject: t, Inferred: inferred, Expected: expected}
	}
	return nil
}
