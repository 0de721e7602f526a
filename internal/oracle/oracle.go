// Package oracle declares the Oracle interface: the compiler-backed
// services the candidate generator, repair driver and check runner treat
// as an external collaborator (spec §6). internal/oracle/mini provides the
// one concrete implementation this repository ships.
package oracle

import (
	"context"

	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/span"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Config carries whatever per-call tuning the oracle needs — currently
// just the hole-nesting level, since the mini oracle has no separate
// build-flag surface. It is threaded through every call so a future oracle
// backend can add fields without changing call sites.
type Config struct {
	// HoleLevel bounds how many of a fit's own sub-holes are allowed to
	// remain unfilled (refinement fits) versus required to be direct
	// value fits. 0 means "direct fits only".
	HoleLevel int
}

// Fit is a candidate expression for a hole: either fully resolved (no
// SubHoles) or a skeleton with typed sub-holes still to fill.
type Fit struct {
	Expr     mini.Expr
	Label    string
	SubHoles []*mini.Type // empty for a direct fit
}

// HoleyExpr is a program with exactly one marked hole, tagged with the
// span the hole occupies in the original program text.
type HoleyExpr struct {
	Whole mini.Expr
	Site  span.Span
}

// Check is an opaque, compiled artifact: a thunk that, when run inside the
// sandbox, produces a boolean vector over an ordered property list. The
// mini oracle's checkbuild.Check is one concrete representation; the
// interface only needs an opaque handle here.
type Check interface {
	// Run evaluates the check's boolean vector, or reports why it
	// couldn't (a runtime error distinct from a genuine false result).
	Run(ctx context.Context) (bits []bool, err error)
}

// Oracle is the full set of compiler services the engine treats as an
// external collaborator, item-for-item per spec.md §6.
type Oracle interface {
	// CompileAtType returns direct fits and refinement fits for a hole of
	// the given type in the given context.
	CompileAtType(cfg Config, exprText string, t *mini.Type, env mini.Env) ([]Fit, error)

	// MonomorphiseType attempts to resolve t to a concrete (variable-free)
	// type; ok is false if it cannot be.
	MonomorphiseType(cfg Config, t *mini.Type) (concrete *mini.Type, ok bool)

	// CompileChecks compiles a batch of check sources into runnable
	// checks, preserving input order.
	CompileChecks(cfg Config, sources []CheckSource) ([]Check, error)

	// GetHoley enumerates every rewrite of exprText with exactly one
	// subexpression replaced by a hole.
	GetHoley(cfg Config, exprText string) ([]HoleyExpr, error)

	// GetHoleFits returns the fits usable at the hole in he, given its
	// required type (recovered by typed-hole inference) and env, plus the
	// typing environment actually in force at the hole's position — which,
	// for a hole nested inside a lambda or let in he.Whole, includes
	// bindings introduced on the way down that env itself does not carry.
	GetHoleFits(cfg Config, he HoleyExpr, t *mini.Type, env mini.Env) ([]Fit, mini.Env, error)

	// FillHole substitutes he's unique hole with expr; ok is false if he
	// has no hole (or more than one, which should not occur for a
	// well-formed HoleyExpr).
	FillHole(he HoleyExpr, expr mini.Expr) (result mini.Expr, ok bool)

	// Replacements enumerates the Cartesian product of fits across
	// multiple holes of a multi-hole skeleton: fitsPerHole[i] is the
	// candidate list for the i-th hole in he.Whole's Walk order: the
	// result has len(fitsPerHole[0]) * len(fitsPerHole[1]) * ... entries
	// (0 if any factor is empty).
	Replacements(he HoleyExpr, fitsPerHole [][]Fit) []mini.Expr

	// ReplaceExpr applies an EFix-shaped set of (span, expr) substitutions
	// to program. Kept here only to mirror the external-interface
	// enumeration; internal/fix.Apply is what callers actually use, since
	// it needs no oracle state.
	ReplaceExpr(program mini.Expr, entries map[span.Span]mini.Expr) mini.Expr

	// ParseExpr and ShowUnsafe are canonical parse/render, matching
	// mini.ParseExpr and mini.Show.
	ParseExpr(cfg Config, text string) (mini.Expr, error)
	ShowUnsafe(e mini.Expr) string

	// CheckFixes is the batch variant of the run-check path: compile and
	// run a check per candidate program against problem's properties,
	// preserving candidate order in the returned verdict slice.
	CheckFixes(ctx context.Context, cfg Config, problem Problem, candidatePrograms []mini.Expr) ([]verdict.Verdict, error)
}

// CheckSource is what CompileChecks consumes: everything needed to build
// one compiled check (C2's output).
type CheckSource struct {
	Candidate  mini.Expr
	Type       *mini.Type
	Properties []Property
	Context    []ContextBinding
}

// Property is a named predicate over the candidate, e.g.
// `prop_is_sum = fn f -> f [1,2,3] == 6`.
type Property struct {
	Name string
	Expr mini.Expr // type Arrow(problem type, Bool())
}

// ContextBinding is one auxiliary definition visible to both the program
// and its properties.
type ContextBinding struct {
	Name  string
	Type  *mini.Type
	Value mini.Expr
}

// Problem mirrors internal/problem.Problem's shape for call sites that
// only need the oracle-facing subset (kept as a local type to avoid an
// import cycle between internal/oracle and internal/problem).
type Problem struct {
	Program    mini.Expr
	Type       *mini.Type
	Properties []Property
	Context    []ContextBinding
}
