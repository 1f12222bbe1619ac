// Package check implements the bidirectional type checker of spec.md
// §4.5: infer, check, and sort_of over the λΠ-modulo core, plus the
// typing Context threaded through them.
package check

import "github.com/vito/piccolo/pkg/term"

// Context is a typing context: the types of the variables currently in
// scope, nearest-bound first, so TypeOf(0) is Var(0)'s type. Each stored
// type is kept already shifted to be valid at the context's own depth,
// so callers never shift by hand — only Extend ever does, exactly once
// per binder crossed.
type Context struct {
	types []term.Term
}

// NewContext returns the empty context (top level, no bound variables).
func NewContext() *Context {
	return &Context{}
}

// Extend returns a new context with a variable of type typ (itself
// valid in c, the enclosing context) bound at index 0.
func (c *Context) Extend(typ term.Term) *Context {
	next := make([]term.Term, len(c.types)+1)
	next[0] = term.Shift(1, 0, typ)
	for i, t := range c.types {
		next[i+1] = term.Shift(1, 0, t)
	}
	return &Context{types: next}
}

// TypeOf returns the type of Var(index), or false if index is out of
// scope.
func (c *Context) TypeOf(index int) (term.Term, bool) {
	if index < 0 || index >= len(c.types) {
		return nil, false
	}
	return c.types[index], true
}

// Len reports how many variables are currently bound.
func (c *Context) Len() int {
	return len(c.types)
}
