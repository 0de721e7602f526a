// Package efixgene instantiates internal/ga's Gene[T] for EFix: a
// population of candidate fixes against one fixed problem and program
// (spec §4.7, "EFix-specific algorithms").
package efixgene

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/kanso-lang/repairgo/internal/fitness"
	"github.com/kanso-lang/repairgo/internal/fix"
	"github.com/kanso-lang/repairgo/internal/ga"
	"github.com/kanso-lang/repairgo/internal/oracle"
	"github.com/kanso-lang/repairgo/internal/randutil"
	"github.com/kanso-lang/repairgo/internal/repair"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Env is the shared, read-only context every Individual in a run carries:
// the problem being repaired, a Driver to extend a fix by one more
// single-step repair, and an Evaluator to score it. It is built once per
// search and passed by pointer so individuals stay cheap to copy.
type Env struct {
	Oracle    oracle.Oracle
	Config    oracle.Config
	Problem   oracle.Problem
	Driver    *repair.Driver
	Evaluator *fitness.Evaluator
}

// NewEnv builds an Env for repairing problem.Program against problem,
// backed by o.
func NewEnv(o oracle.Oracle, cfg oracle.Config, problem oracle.Problem) *Env {
	return &Env{
		Oracle:    o,
		Config:    cfg,
		Problem:   problem,
		Driver:    repair.New(o),
		Evaluator: fitness.New(o, problem, problem.Program),
	}
}

// Individual is one EFix chromosome: a candidate fix against Env's fixed
// problem. It implements ga.Gene[Individual].
type Individual struct {
	Fix fix.Fix
	Env *Env
}

var _ ga.Gene[Individual] = Individual{}

// Crossover recombines two fixes at independent uniform one-point cuts
// (spec §4.7, "Crossover (EFix)"): cut each parent's entry list at a point
// in [0, len], and recombine head-of-one with tail-of-other via Merge's
// overlap rule so an entry from the tail that was already superseded by a
// head entry is dropped rather than duplicated.
func (ind Individual) Crossover(_ context.Context, other Individual, r *rand.Rand) (Individual, Individual, error) {
	cutA := randutil.UniformRange(r, 0, ind.Fix.Len())
	cutB := randutil.UniformRange(r, 0, other.Fix.Len())

	childA := fix.Merge(ind.Fix[:cutA], other.Fix[cutB:])
	childB := fix.Merge(other.Fix[:cutB], ind.Fix[cutA:])

	return Individual{Fix: childA, Env: ind.Env}, Individual{Fix: childB, Env: ind.Env}, nil
}

// Mutate either shrinks the fix by one entry, with probability dropRate
// when it is non-empty, or extends it: apply the current fix to the
// program, run one more repairAttempt against the result, and merge a
// uniformly chosen single-step child into the receiver (spec §4.7,
// "Mutation (EFix)"). The chosen attempt's own verdict, computed against
// the already-partially-fixed program, is returned alongside the child;
// on a cache miss Fitness scores the child from that verdict instead of
// running the check again.
func (ind Individual) Mutate(ctx context.Context, r *rand.Rand, dropRate float64) (Individual, *verdict.Verdict, error) {
	if ind.Fix.Len() > 0 && randutil.Coin(r, dropRate) {
		idx := randutil.UniformRange(r, 0, ind.Fix.Len()-1)
		return Individual{Fix: ind.Fix.Without(idx), Env: ind.Env}, nil, nil
	}

	applied := fix.Apply(ind.Env.Problem.Program, ind.Fix)
	p := ind.Env.Problem
	p.Program = applied

	attempts, err := ind.Env.Driver.RepairAttempt(ctx, ind.Env.Config, p)
	if err != nil {
		return ind, nil, err
	}
	if len(attempts) == 0 {
		// Per spec §9's open question on an empty repairAttempt during
		// mutation: the individual passes through unchanged rather than
		// erroring the whole generation.
		return ind, nil, nil
	}

	chosen, ok := randutil.UniformPick(r, attempts)
	if !ok {
		return ind, nil, nil
	}

	merged := fix.Merge(ind.Fix, chosen.Fix)
	return Individual{Fix: merged, Env: ind.Env}, &chosen.Verdict, nil
}

// Fitness delegates to the shared Evaluator, which caches by the fix's
// rendered text.
func (ind Individual) Fitness(ctx context.Context, precomputed *verdict.Verdict) (float64, error) {
	return ind.Env.Evaluator.Fitness(ctx, ind.Fix, precomputed)
}

// InitialPopulation draws from a single fresh repairAttempt call against
// the original problem, then samples size individuals from its attempts
// uniformly with replacement (spec §4.7, "Initial population"): the attempt
// is performed once per call, not once per individual. An attempt call that
// comes back empty is an internal invariant violation here — unlike
// Mutate's pass-through on the same condition, there is no prior individual
// to fall back to, so the population can't be seeded at all.
func InitialPopulation(env *Env) ga.InitialPopulationFunc[Individual] {
	return func(ctx context.Context, size int, r *rand.Rand) ([]Individual, error) {
		attempts, err := env.Driver.RepairAttempt(ctx, env.Config, env.Problem)
		if err != nil {
			return nil, err
		}
		if len(attempts) == 0 {
			return nil, fmt.Errorf("initial population: repairAttempt on the original problem returned no single-step attempts")
		}

		out := make([]Individual, 0, size)
		for i := 0; i < size; i++ {
			chosen, ok := randutil.UniformPick(r, attempts)
			if !ok {
				return nil, fmt.Errorf("initial population: failed to sample from %d attempts", len(attempts))
			}
			out = append(out, Individual{Fix: chosen.Fix, Env: env})
		}
		return out, nil
	}
}
