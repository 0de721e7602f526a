// Package problem defines the Problem record (spec §3) and its text-file
// loader: a typed repair-site binding, an ordered list of named property
// predicates, and an ordered list of auxiliary context bindings visible to
// both.
package problem

import (
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
)

// ContextBinding is one auxiliary definition in scope for both the
// program and its properties, e.g. `add :: Int -> Int -> Int`.
type ContextBinding = oracle.ContextBinding

// Property is one named predicate over the candidate.
type Property = oracle.Property

// Problem is `{ program, type, properties[], context[] }` from spec §3.
type Problem struct {
	// Name identifies the problem: the name Load was given (the CLI passes
	// the problem file's path).
	Name string

	Program mini.Expr
	Type    *mini.Type

	Properties []Property
	Context    []ContextBinding
}

// Env builds the typing environment a type checker or the oracle needs:
// every context binding's declared type, keyed by name.
func (p Problem) Env() mini.Env {
	env := make(mini.Env, len(p.Context))
	for _, c := range p.Context {
		env[c.Name] = c.Type
	}
	return env
}

// OracleProblem projects p down to the subset internal/oracle's Problem
// type needs, avoiding an import cycle between this package and
// internal/oracle.
func (p Problem) OracleProblem() oracle.Problem {
	return oracle.Problem{
		Program:    p.Program,
		Type:       p.Type,
		Properties: p.Properties,
		Context:    p.Context,
	}
}
