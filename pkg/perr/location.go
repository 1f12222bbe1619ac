// Package perr implements the error kinds of spec.md §7, each carrying
// enough source location information for the command dispatcher to
// render a caret-highlighted diagnostic. Modeled on
// pkg/dang/errors.go's SourceLocation/SourceError pair, split into one
// struct per named error kind so the dispatcher can switch on kind
// instead of string-matching a message (§6: asserting directives abort,
// non-asserting ones warn).
package perr

import (
	"fmt"
	"os"
	"strings"
)

// SourceLocation pinpoints the source position that caused an error.
type SourceLocation struct {
	Filename string
	Line     int // 1-based
	Column   int // 1-based
	Length   int // length, in bytes, of the offending span
}

func (loc *SourceLocation) String() string {
	if loc == nil {
		return "<unknown location>"
	}
	name := loc.Filename
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", name, loc.Line, loc.Column)
}

// Highlight renders a caret-annotated snippet of source around loc, the
// way pkg/dang/errors.go's FormatWithHighlighting does. source is the
// full text of loc.Filename; callers that don't have it in memory can
// pass "", and Highlight then reads loc.Filename from disk. It returns
// "" when no source is available or loc.Line is out of range.
func Highlight(loc *SourceLocation, source string) string {
	if loc == nil {
		return ""
	}
	if source == "" && loc.Filename != "" {
		if contents, err := os.ReadFile(loc.Filename); err == nil {
			source = string(contents)
		}
	}
	if source == "" {
		return ""
	}

	lines := strings.Split(source, "\n")
	if loc.Line < 1 || loc.Line > len(lines) {
		return ""
	}
	line := lines[loc.Line-1]

	col := loc.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	length := loc.Length
	if length < 1 {
		length = 1
	}

	caretLine := strings.Repeat(" ", col) + strings.Repeat("^", length)
	return fmt.Sprintf("%s\n%s\n%s", loc.String(), line, caretLine)
}
