// Package fix implements EFix: a finite, ordered mapping from source spans
// to replacement expressions, and its application and merge operations
// (C5).
package fix

import (
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/span"
)

// Entry is one (span, replacement) pair of a Fix.
type Entry struct {
	Span span.Span
	Expr mini.Expr
}

// Fix is an ordered list of entries. Order matters: it is both the
// application order and the order consulted by Merge's overlap rule.
// All spans are expected to be sub-spans of the owning problem's repair
// site; that invariant is established by callers (the repair driver and
// the GA's crossover/mutation), not enforced here.
type Fix []Entry

// Empty represents "no change".
func Empty() Fix { return nil }

// Len reports the number of entries.
func (f Fix) Len() int { return len(f) }

// With returns a new Fix with (s, e) appended.
func (f Fix) With(s span.Span, e mini.Expr) Fix {
	out := make(Fix, len(f), len(f)+1)
	copy(out, f)
	return append(out, Entry{Span: s, Expr: e})
}

// Without returns a copy of f with the entry at index i removed.
func (f Fix) Without(i int) Fix {
	out := make(Fix, 0, len(f)-1)
	out = append(out, f[:i]...)
	out = append(out, f[i+1:]...)
	return out
}

// Equal reports structural equality: same length, same spans and same
// rendered text at each position, in order. This mirrors the open
// question in the design notes — winner dedup is syntactic, not semantic.
func Equal(a, b Fix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Span != b[i].Span {
			return false
		}
		if mini.Show(a[i].Expr) != mini.Show(b[i].Expr) {
			return false
		}
	}
	return true
}

// Merge concatenates a's entries with b's entries, filtered so that no
// entry carried over from b has a span equal to or strictly contained in any span
// already present (in a, or in an earlier-surviving entry from b itself —
// matching "already present" as the running accumulation, not just a's
// original entries). Order of application is a's entries followed by the
// filtered entries of b.
func Merge(a, b Fix) Fix {
	out := make(Fix, len(a), len(a)+len(b))
	copy(out, a)
	for _, be := range b {
		if containedByAny(be.Span, out) {
			continue
		}
		out = append(out, be)
	}
	return out
}

func containedByAny(s span.Span, entries []Entry) bool {
	for _, e := range entries {
		if e.Span.StrictlyContains(s) || e.Span == s {
			return true
		}
	}
	return false
}

// Apply substitutes every entry of f into root, in f's iteration order.
// An entry whose span is strictly contained in (or equal to) an
// already-applied entry's span is skipped, since its target subexpression
// no longer exists once the enclosing span was replaced.
func Apply(root mini.Expr, f Fix) mini.Expr {
	var applied []span.Span
	for _, e := range f {
		if spanSkippedByPrior(e.Span, applied) {
			continue
		}
		root = mini.Replace(root, e.Span, e.Expr)
		applied = append(applied, e.Span)
	}
	return root
}

func spanSkippedByPrior(s span.Span, applied []span.Span) bool {
	for _, a := range applied {
		if a.StrictlyContains(s) || a == s {
			return true
		}
	}
	return false
}
