package surface

import "fmt"

// SyntaxError reports a lexical or grammatical problem. It deliberately
// does not implement perr.Located: §1 treats the surface parser as
// external to the core, so parse failures are a distinct error family
// from the core's §7 kinds, not one of them.
type SyntaxError struct {
	Line, Col int
	Message   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Message)
}
