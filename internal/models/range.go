// Package models defines the data types of the vault's §3 data model:
// positions and ranges, the structural entities a Markdown file is scanned
// into, and the reference/referenceable graph that links them together.
package models

import "fmt"

// Position is a zero-based line/character coordinate. Character offsets
// address Unicode scalar values, not bytes or graphemes.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Less reports whether p sorts strictly before other in document order.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Character < other.Character
}

// LessEqual reports whether p sorts at or before other in document order.
func (p Position) LessEqual(other Position) bool {
	return p == other || p.Less(other)
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range is a half-open span [Start, End) over Unicode scalar positions on
// one or more lines. End is exclusive.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos lies within the half-open range.
func (r Range) Contains(pos Position) bool {
	return r.Start.LessEqual(pos) && pos.Less(r.End)
}

// SingleLine reports whether the range starts and ends on the same line.
func (r Range) SingleLine() bool {
	return r.Start.Line == r.End.Line
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// NewRange builds a single-line range from a line number and a [startChar,
// endChar) character span.
func NewRange(line, startChar, endChar int) Range {
	return Range{
		Start: Position{Line: line, Character: startChar},
		End:   Position{Line: line, Character: endChar},
	}
}
