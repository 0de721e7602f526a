// Package repair implements the Repair Driver (C4): turning a broken
// program into a holey form, asking the oracle for fits at every site, and
// checking the resulting candidates.
package repair

import (
	"context"

	"github.com/kanso-lang/repairgo/internal/fix"
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
	"github.com/kanso-lang/repairgo/internal/synth"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Attempt pairs a single-step candidate fix with its raw, unfiltered
// verdict — the record repairAttempt returns so that fitness can be
// computed lazily over the whole search tree (spec §4.4).
type Attempt struct {
	Fix     fix.Fix
	Verdict verdict.Verdict
}

// Driver implements C4 against one oracle backend, reusing a Synthesizer to
// resolve a refinement fit's own sub-holes down to direct fits (always at
// hole-nesting level 0 — repair never recurses into deeper skeleton
// expansion the way C3's depth parameter does).
type Driver struct {
	Oracle oracle.Oracle
	synth  *synth.Synthesizer
}

// New returns a Driver backed by o, with its own Synthesizer (and thus its
// own MemoCache) for sub-hole resolution.
func New(o oracle.Oracle) *Driver {
	return &Driver{Oracle: o, synth: synth.New(o)}
}

// RepairAttempt returns every single-step candidate fix obtainable by
// filling exactly one repair site, paired with its raw verdict, with no
// filtering — the single-step variant C7's mutation operator consumes
// directly.
func (d *Driver) RepairAttempt(ctx context.Context, cfg oracle.Config, p oracle.Problem) ([]Attempt, error) {
	text := d.Oracle.ShowUnsafe(p.Program)
	holeyForms, err := d.Oracle.GetHoley(cfg, text)
	if err != nil {
		return nil, err
	}

	env := envOf(p.Context)

	var fixes []fix.Fix
	var programs []mini.Expr
	for _, he := range holeyForms {
		// A site where the hole falls in a position the type checker can
		// only infer (never check), such as function-position in a partial
		// application, has no recoverable hole type; per spec §7 that site
		// simply contributes no expansion rather than aborting the whole
		// attempt.
		fits, holeEnv, err := d.Oracle.GetHoleFits(cfg, he, p.Type, env)
		if err != nil {
			continue
		}
		siteContext := extendContext(p.Context, holeEnv)
		for _, f := range fits {
			fillers, err := d.resolveFit(ctx, cfg, siteContext, f)
			if err != nil {
				return nil, err
			}
			for _, filler := range fillers {
				filled, ok := d.Oracle.FillHole(he, filler)
				if !ok {
					continue
				}
				fixes = append(fixes, fix.Empty().With(he.Site, filler))
				programs = append(programs, filled)
			}
		}
	}

	if len(programs) == 0 {
		return nil, nil
	}

	verdicts, err := d.Oracle.CheckFixes(ctx, cfg, p, programs)
	if err != nil {
		return nil, err
	}
	attempts := make([]Attempt, len(fixes))
	for i := range fixes {
		attempts[i] = Attempt{Fix: fixes[i], Verdict: verdicts[i]}
	}
	return attempts, nil
}

// Repair returns the canonical text of every fully-applied candidate whose
// verdict was AllPass (spec §4.4, steps 1-5).
func (d *Driver) Repair(ctx context.Context, cfg oracle.Config, p oracle.Problem) ([]string, error) {
	attempts, err := d.RepairAttempt(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, a := range attempts {
		if a.Verdict.IsWinner() {
			fixed := fix.Apply(p.Program, a.Fix)
			out = append(out, d.Oracle.ShowUnsafe(fixed))
		}
	}
	return out, nil
}

// resolveFit expands f down to a list of hole-free expressions: itself, if
// it is already a direct fit, or the Cartesian product of direct fits for
// each of its sub-holes (queried at hole-nesting level 0, since a repair
// site's own refinement is as deep as C4 goes — further nesting is C3's
// job).
func (d *Driver) resolveFit(ctx context.Context, cfg oracle.Config, ctxBindings []oracle.ContextBinding, f oracle.Fit) ([]mini.Expr, error) {
	if len(f.SubHoles) == 0 {
		return []mini.Expr{f.Expr}, nil
	}

	directCfg := oracle.Config{HoleLevel: 0}
	fitsPerHole := make([][]oracle.Fit, len(f.SubHoles))
	for i, subType := range f.SubHoles {
		texts, err := d.synth.Synthesize(ctx, directCfg, 0, ctxBindings, subType, nil)
		if err != nil {
			return nil, err
		}
		if len(texts) == 0 {
			return nil, nil
		}
		holeFits := make([]oracle.Fit, len(texts))
		for j, text := range texts {
			expr, err := d.Oracle.ParseExpr(cfg, text)
			if err != nil {
				return nil, err
			}
			holeFits[j] = oracle.Fit{Expr: expr, Label: text}
		}
		fitsPerHole[i] = holeFits
	}

	he := oracle.HoleyExpr{Whole: f.Expr}
	return d.Oracle.Replacements(he, fitsPerHole), nil
}

func envOf(ctxBindings []oracle.ContextBinding) mini.Env {
	env := make(mini.Env, len(ctxBindings))
	for _, c := range ctxBindings {
		env[c.Name] = c.Type
	}
	return env
}

// extendContext appends a context binding for every name in holeEnv not
// already present in base: typically the lambda- or let-bound names a
// hole's local scope adds beyond the problem's own context (e.g. the a, b
// of `fn a -> fn b -> ?`). resolveFit's sub-hole synthesis runs with no
// properties, so it never evaluates a binding's Value — only its Type
// drives which identifiers are offered as fits — so a self-reference
// placeholder expression is a safe stand-in here.
func extendContext(base []oracle.ContextBinding, holeEnv mini.Env) []oracle.ContextBinding {
	if len(holeEnv) == 0 {
		return base
	}
	seen := make(map[string]bool, len(base))
	out := append([]oracle.ContextBinding{}, base...)
	for _, b := range base {
		seen[b.Name] = true
	}
	for name, t := range holeEnv {
		if seen[name] {
			continue
		}
		placeholder, err := mini.ParseExpr(name)
		if err != nil {
			continue
		}
		out = append(out, oracle.ContextBinding{Name: name, Type: t, Value: placeholder})
	}
	return out
}
