// Package checkbuild implements C2: it produces, for a candidate
// expression and property list, a serializable descriptor that the
// sandbox package can hand to a re-exec'd child process and evaluate
// there to a boolean vector.
//
// The original design (§4.2) builds a textual source fragment for a
// Haskell-style property-check library. repairgo's oracle and runtime are
// both native Go, so there is no second compilation stage to target: a
// Check is a plain, JSON-serializable struct carrying canonical
// mini-language text for the candidate, its context, and each property,
// which the child process parses, binds and evaluates directly.
package checkbuild

import (
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
)

// ContextEntry is one context binding, canonicalized to text so the
// whole Check survives a JSON round-trip to the sandboxed child.
type ContextEntry struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// PropertyEntry is one named property predicate, canonicalized to text.
// Properties are always of type candidateType -> Bool.
type PropertyEntry struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// Check is the compiled-check descriptor C2 builds and C1 executes: bind
// Candidate at Type in Context, then evaluate every Properties[i] applied
// to Candidate, producing an ordered boolean vector.
type Check struct {
	Candidate  string          `json:"candidate"`
	Type       string          `json:"type"`
	Context    []ContextEntry  `json:"context"`
	Properties []PropertyEntry `json:"properties"`
}

// Build produces one Check per candidate, preserving candidatePrograms'
// order — this is the "checks, in candidate-list order" contract §5
// requires of the driver.
func Build(problem oracle.Problem, candidatePrograms []mini.Expr) []Check {
	ctxEntries := make([]ContextEntry, len(problem.Context))
	for i, c := range problem.Context {
		ctxEntries[i] = ContextEntry{Name: c.Name, Expr: mini.Show(c.Value)}
	}
	propEntries := make([]PropertyEntry, len(problem.Properties))
	for i, p := range problem.Properties {
		propEntries[i] = PropertyEntry{Name: p.Name, Expr: mini.Show(p.Expr)}
	}

	checks := make([]Check, len(candidatePrograms))
	for i, cand := range candidatePrograms {
		checks[i] = Check{
			Candidate:  mini.Show(cand),
			Type:       problem.Type.String(),
			Context:    ctxEntries,
			Properties: propEntries,
		}
	}
	return checks
}

// Evaluate parses and runs c entirely in-process, returning the boolean
// vector over Properties in order. It is the logic the sandboxed child
// process invokes after decoding a Check from its stdin; it is exported
// separately from the sandbox package so it can also be exercised directly
// by tests without forking a real child.
func Evaluate(c Check) ([]bool, error) {
	renv := mini.BaseEnv()

	for name, src := range mini.Prelude() {
		pe, err := mini.ParseExpr(src)
		if err != nil {
			return nil, err
		}
		let := pe.(*mini.Let)
		th := mini.NewThunk(let.Value, nil)
		renv = renv.Bind(name, th)
		th.SetEnv(renv)
	}

	for _, entry := range c.Context {
		e, err := mini.ParseExpr(entry.Expr)
		if err != nil {
			return nil, err
		}
		th := mini.NewThunk(e, nil)
		renv = renv.Bind(entry.Name, th)
		th.SetEnv(renv)
	}

	candidateExpr, err := mini.ParseExpr(c.Candidate)
	if err != nil {
		return nil, err
	}
	candidateThunk := mini.NewThunk(candidateExpr, renv)

	bits := make([]bool, len(c.Properties))
	for i, p := range c.Properties {
		propExpr, err := mini.ParseExpr(p.Expr)
		if err != nil {
			return nil, err
		}
		propVal, err := mini.Eval(propExpr, renv)
		if err != nil {
			return nil, err
		}
		clo, ok := propVal.(mini.VClosure)
		if !ok {
			return nil, mini.RuntimeError{Message: "property " + p.Name + " did not evaluate to a function"}
		}
		result, err := mini.Eval(clo.Body, clo.Env.Bind(clo.Param, candidateThunk))
		if err != nil {
			return nil, err
		}
		b, ok := result.(mini.VBool)
		if !ok {
			return nil, mini.RuntimeError{Message: "property " + p.Name + " did not evaluate to a boolean"}
		}
		bits[i] = bool(b)
	}
	return bits, nil
}
