// Package ga implements the Genetic Search Core (C7): a driver loop generic
// over any "gene" capable of crossover, mutation and fitness evaluation
// (spec §9, "Polymorphic chromosome abstraction"). internal/ga/efixgene
// instantiates it for EFix; a future expression-level gene could reuse this
// package untouched.
package ga

import (
	"context"
	"math/rand"

	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Gene is the capability set the search core requires of an individual:
// crossover, mutation, and fitness. Initial population is deliberately not
// a Gene method — it is a population-level factory, supplied to Search
// separately (see InitialPopulationFunc) since it has no single receiver.
type Gene[T any] interface {
	// Crossover produces two children from the receiver and other.
	Crossover(ctx context.Context, other T, r *rand.Rand) (childA, childB T, err error)

	// Mutate returns a mutated copy of the receiver. dropRate is the
	// probability of shrinking by one entry rather than extending via a
	// single-step repair (meaningful to EFix; other gene shapes may ignore
	// it). If the mutation incidentally obtained a verdict for the result
	// (e.g. EFix's repairAttempt-based extension), it is returned so the
	// caller can pass it to Fitness without re-running a check.
	Mutate(ctx context.Context, r *rand.Rand, dropRate float64) (child T, obtained *verdict.Verdict, err error)

	// Fitness returns the individual's score in [0, 1], 0 best. If
	// precomputed is non-nil the implementation should use it instead of
	// re-running a check (mirroring internal/fitness.Evaluator.Fitness).
	Fitness(ctx context.Context, precomputed *verdict.Verdict) (float64, error)
}

// InitialPopulationFunc produces size freshly generated individuals, e.g.
// by sampling C4's repairAttempt repeatedly (spec §4.7, "Initial
// population").
type InitialPopulationFunc[T any] func(ctx context.Context, size int, r *rand.Rand) ([]T, error)
