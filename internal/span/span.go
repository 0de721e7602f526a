// Package span provides the opaque source-region identifier used across the
// repair engine: source positions, and spans built from a pair of positions.
package span

import "fmt"

// Position is a single point in a source file.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (p Position) Before(o Position) bool { return p.Offset < o.Offset }

// Span is a totally ordered, opaque identifier of a source region, spanning
// [Start, End) in byte offsets. Equality is structural.
type Span struct {
	Start Position
	End   Position
}

// Contains reports whether s strictly or equally encloses o.
func (s Span) Contains(o Span) bool {
	return s.Start.Offset <= o.Start.Offset && o.End.Offset <= s.End.Offset
}

// StrictlyContains reports whether s encloses o but the two spans are not
// structurally equal.
func (s Span) StrictlyContains(o Span) bool {
	return s.Contains(o) && s != o
}

func (s Span) Len() int { return s.End.Offset - s.Start.Offset }

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Less gives Span a total order, keyed first by start offset, then by end
// offset, so spans are reproducibly sortable regardless of discovery order.
func Less(a, b Span) bool {
	if a.Start.Offset != b.Start.Offset {
		return a.Start.Offset < b.Start.Offset
	}
	return a.End.Offset < b.End.Offset
}
