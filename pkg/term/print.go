package term

import (
	"fmt"
	"strings"
)

// String renders t for display: bound variables print as their de
// Bruijn index (#0, #1, ...) and binders print their bound name as "_".
// This never round-trips through the
// parser — it exists for error messages and --debug dumps.
func (t Kind) String() string     { return "Kind" }
func (t TypeSort) String() string { return "Type" }

func (t Var) String() string { return fmt.Sprintf("#%d", t.Index) }

func (t Sym) String() string {
	if t.Module == "" {
		return t.Name
	}
	return t.Module + "." + t.Name
}

func (t App) String() string {
	head, args := Spine(t)
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, wrapAtom(head))
	for _, a := range args {
		parts = append(parts, wrapAtom(a))
	}
	return strings.Join(parts, " ")
}

func (t Prod) String() string {
	return fmt.Sprintf("(_ : %s) -> %s", t.Domain, t.Codomain)
}

func (t Abst) String() string {
	if t.Annotation != nil {
		return fmt.Sprintf("\\(_ : %s). %s", t.Annotation, t.Body)
	}
	return fmt.Sprintf("\\_. %s", t.Body)
}

func (t PatHole) String() string { return fmt.Sprintf("?%d", t.Index) }

// wrapAtom parenthesizes t if it would be ambiguous as an application
// argument (an App, Prod, or Abst printed without parens).
func wrapAtom(t Term) string {
	switch t.(type) {
	case App, Prod, Abst:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}
