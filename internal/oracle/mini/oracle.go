// Package mini implements internal/oracle.Oracle against
// internal/langs/mini: the one concrete compiler backend repairgo ships,
// making the otherwise-abstract engine a runnable, testable whole.
package mini

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kanso-lang/repairgo/internal/checkbuild"
	langmini "github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
	"github.com/kanso-lang/repairgo/internal/sandbox"
	"github.com/kanso-lang/repairgo/internal/span"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// MaxConcurrentChecks bounds how many sandboxed child processes CheckFixes
// runs at once, the same batch-concurrency discipline the pack's
// errgroup-based batch builders use for independent, isolated units of
// work.
const MaxConcurrentChecks = 8

// Oracle is the mini-language compiler oracle.
type Oracle struct{}

// New returns a ready-to-use mini-language Oracle. It carries no state: all
// of its operations are pure functions of their arguments, except
// CheckFixes and the Run method of the checks CompileChecks returns, which
// fork sandboxed child processes.
func New() *Oracle { return &Oracle{} }

func (o *Oracle) CompileAtType(cfg oracle.Config, _ string, t *langmini.Type, env langmini.Env) ([]oracle.Fit, error) {
	var out []oracle.Fit
	for _, f := range langmini.DirectFits(t, env) {
		out = append(out, oracle.Fit{Expr: f.Expr, Label: f.Label})
	}
	if cfg.HoleLevel > 0 {
		for _, f := range langmini.RefinementFits(t, env) {
			out = append(out, oracle.Fit{Expr: f.Expr, Label: f.Label, SubHoles: f.SubHoleTypes})
		}
	}
	return out, nil
}

func (o *Oracle) MonomorphiseType(_ oracle.Config, t *langmini.Type) (*langmini.Type, bool) {
	return t, langmini.IsConcrete(t)
}

func (o *Oracle) CompileChecks(cfg oracle.Config, sources []oracle.CheckSource) ([]oracle.Check, error) {
	out := make([]oracle.Check, len(sources))
	for i, src := range sources {
		ctxEntries := make([]checkbuild.ContextEntry, len(src.Context))
		for j, c := range src.Context {
			ctxEntries[j] = checkbuild.ContextEntry{Name: c.Name, Expr: langmini.Show(c.Value)}
		}
		propEntries := make([]checkbuild.PropertyEntry, len(src.Properties))
		for j, p := range src.Properties {
			propEntries[j] = checkbuild.PropertyEntry{Name: p.Name, Expr: langmini.Show(p.Expr)}
		}
		out[i] = &compiledCheck{
			check: checkbuild.Check{
				Candidate:  langmini.Show(src.Candidate),
				Type:       src.Type.String(),
				Context:    ctxEntries,
				Properties: propEntries,
			},
		}
	}
	return out, nil
}

// compiledCheck adapts a checkbuild.Check to the oracle.Check interface,
// running it through the sandbox on demand.
type compiledCheck struct {
	check checkbuild.Check
}

// Run reports an AllFail verdict (a candidate that crashed or exited
// abnormally), a timeout and a wrong-shaped result as errors, so a genuine
// all-false vector is never confused with a runtime failure.
func (c *compiledCheck) Run(ctx context.Context) ([]bool, error) {
	v := sandbox.Run(ctx, c.check, sandbox.DefaultTimeout)
	switch v.Kind {
	case verdict.AllPass:
		bits := make([]bool, len(c.check.Properties))
		for i := range bits {
			bits[i] = true
		}
		return bits, nil
	case verdict.Partial:
		return v.Bits, nil
	case verdict.AllFail:
		return nil, fmt.Errorf("check failed at runtime")
	case verdict.Timeout:
		return nil, fmt.Errorf("check timed out")
	default:
		return nil, fmt.Errorf("check produced an unexpected result shape")
	}
}

func (o *Oracle) GetHoley(_ oracle.Config, exprText string) ([]oracle.HoleyExpr, error) {
	root, err := langmini.ParseExpr(exprText)
	if err != nil {
		return nil, err
	}
	var out []oracle.HoleyExpr
	for _, sub := range langmini.Subexprs(root) {
		if _, isHole := sub.(*langmini.Hole); isHole {
			continue
		}
		site := sub.Span()
		whole := langmini.Replace(root, site, &langmini.Hole{})
		out = append(out, oracle.HoleyExpr{Whole: whole, Site: site})
	}
	return out, nil
}

func (o *Oracle) GetHoleFits(cfg oracle.Config, he oracle.HoleyExpr, t *langmini.Type, env langmini.Env) ([]oracle.Fit, langmini.Env, error) {
	holeType, holeEnv, err := langmini.CheckHoleType(he.Whole, t, env)
	if err != nil {
		return nil, nil, err
	}
	fits, err := o.CompileAtType(cfg, "", holeType, holeEnv)
	if err != nil {
		return nil, nil, err
	}
	return fits, holeEnv, nil
}

func (o *Oracle) FillHole(he oracle.HoleyExpr, expr langmini.Expr) (langmini.Expr, bool) {
	holes := langmini.Holes(he.Whole)
	if len(holes) != 1 {
		return nil, false
	}
	return langmini.Replace(he.Whole, holes[0].Span(), expr), true
}

func (o *Oracle) Replacements(he oracle.HoleyExpr, fitsPerHole [][]oracle.Fit) []langmini.Expr {
	holes := langmini.Holes(he.Whole)
	if len(holes) != len(fitsPerHole) {
		return nil
	}
	for _, fits := range fitsPerHole {
		if len(fits) == 0 {
			return nil
		}
	}
	indices := make([]int, len(holes))
	var out []langmini.Expr
	for {
		result := he.Whole
		for i, hole := range holes {
			result = langmini.Replace(result, hole.Span(), fitsPerHole[i][indices[i]].Expr)
		}
		out = append(out, result)

		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(fitsPerHole[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

func (o *Oracle) ReplaceExpr(program langmini.Expr, entries map[span.Span]langmini.Expr) langmini.Expr {
	for s, e := range entries {
		program = langmini.Replace(program, s, e)
	}
	return program
}

func (o *Oracle) ParseExpr(_ oracle.Config, text string) (langmini.Expr, error) {
	return langmini.ParseExpr(text)
}

func (o *Oracle) ShowUnsafe(e langmini.Expr) string { return langmini.Show(e) }

func (o *Oracle) CheckFixes(ctx context.Context, cfg oracle.Config, problem oracle.Problem, candidatePrograms []langmini.Expr) ([]verdict.Verdict, error) {
	checks := checkbuild.Build(problem, candidatePrograms)
	verdicts := make([]verdict.Verdict, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentChecks)
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			verdicts[i] = sandbox.Run(gctx, c, sandbox.DefaultTimeout)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}
