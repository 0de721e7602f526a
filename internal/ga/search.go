package ga

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/kanso-lang/repairgo/internal/randutil"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

// Search runs the genetic search core per spec §4.7: a single driver loop
// over (population(s), iterationsLeft, wallClockUsed, accumulatedWinners),
// replacing the original's continuation-passing recursion with a direct
// loop (spec §9, "Coroutine-style recursion in GA").
func Search[T Gene[T]](ctx context.Context, cfg Config, initial InitialPopulationFunc[T], r *rand.Rand) ([]T, error) {
	if cfg.Island != nil {
		return searchIslands[T](ctx, cfg, initial, r)
	}

	pop, err := initial(ctx, cfg.PopulationSize, r)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(time.Duration(cfg.TimeoutInMinutes * float64(time.Minute)))
	var accumulated []T

	for gen := 0; gen < cfg.Iterations; gen++ {
		if time.Now().After(deadline) {
			break
		}

		survivors, winners, err := runGeneration[T](ctx, cfg, pop, r)
		if err != nil {
			return nil, err
		}
		pop = survivors
		accumulated = append(accumulated, winners...)

		if cfg.StopOnResults && len(winners) > 0 {
			return accumulated, nil
		}
		if cfg.ReplaceWinners && len(winners) > 0 {
			pop, err = refillAfterWinners[T](ctx, cfg, pop, winners, initial, r)
			if err != nil {
				return nil, err
			}
		}
	}

	return accumulated, nil
}

// runGeneration executes one generation's pipeline (spec §4.7, steps 1-5)
// and returns the surviving population (winners included) together with
// the winners found among it.
func runGeneration[T Gene[T]](ctx context.Context, cfg Config, pop []T, r *rand.Rand) (survivors, winners []T, err error) {
	var champions []T
	if cfg.Tournament != nil {
		champions, err = pickChampions[T](ctx, pop, *cfg.Tournament, len(pop), r)
		if err != nil {
			return nil, nil, err
		}
	} else {
		champions = pop
	}

	pairs := randutil.PartitionInPairs(r, champions)
	children := make([]T, 0, len(champions))
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		if randutil.Coin(r, cfg.CrossoverRate) {
			a, b, err = a.Crossover(ctx, b, r)
			if err != nil {
				return nil, nil, err
			}
		}
		children = append(children, a, b)
	}

	mutatedVerdicts := make([]*verdict.Verdict, len(children))
	for i, c := range children {
		if randutil.Coin(r, cfg.MutationRate) {
			m, obtained, err := c.Mutate(ctx, r, cfg.DropRate)
			if err != nil {
				return nil, nil, err
			}
			children[i] = m
			mutatedVerdicts[i] = obtained
		}
	}

	var pool []T
	var pairedVerdicts []*verdict.Verdict
	if cfg.Tournament != nil {
		// Tournament pre-selection already performed the elitism; children
		// replace parents directly.
		pool = children
		pairedVerdicts = mutatedVerdicts
	} else {
		pool = append(append([]T{}, pop...), children...)
		pairedVerdicts = append(make([]*verdict.Verdict, len(pop)), mutatedVerdicts...)
	}

	scored, err := scoreAll[T](ctx, pool, pairedVerdicts)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Tournament == nil {
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].fitness < scored[j].fitness })
		if len(scored) > cfg.PopulationSize {
			scored = scored[:cfg.PopulationSize]
		}
	}

	survivors = make([]T, 0, len(scored))
	for _, s := range scored {
		if s.fitness == 0 {
			winners = append(winners, s.ind)
		}
		survivors = append(survivors, s.ind)
	}
	return survivors, winners, nil
}

type scoredIndividual[T any] struct {
	ind     T
	fitness float64
}

func scoreAll[T Gene[T]](ctx context.Context, pool []T, precomputed []*verdict.Verdict) ([]scoredIndividual[T], error) {
	out := make([]scoredIndividual[T], len(pool))
	for i, ind := range pool {
		var pv *verdict.Verdict
		if i < len(precomputed) {
			pv = precomputed[i]
		}
		f, err := ind.Fitness(ctx, pv)
		if err != nil {
			return nil, err
		}
		out[i] = scoredIndividual[T]{ind: ind, fitness: f}
	}
	return out, nil
}

// refillAfterWinners removes winners from pop (identity is not available
// generically, so a winner is recognized by its fitness of 0, the same test
// runGeneration uses) and tops the population back up to PopulationSize
// via initial.
func refillAfterWinners[T Gene[T]](ctx context.Context, cfg Config, pop []T, winners []T, initial InitialPopulationFunc[T], r *rand.Rand) ([]T, error) {
	remaining := pop[:0:0]
	for _, ind := range pop {
		f, err := ind.Fitness(ctx, nil)
		if err != nil {
			return nil, err
		}
		if f == 0 {
			continue
		}
		remaining = append(remaining, ind)
	}
	fresh, err := initial(ctx, cfg.PopulationSize-len(remaining), r)
	if err != nil {
		return nil, err
	}
	return append(remaining, fresh...), nil
}

// pickChampions runs n independent tournament draws (spec §4.7, "Tournament
// selection (detail)").
func pickChampions[T Gene[T]](ctx context.Context, pop []T, cfg TournamentConfig, n int, r *rand.Rand) ([]T, error) {
	out := make([]T, n)
	for i := 0; i < n; i++ {
		champion, err := tournamentPick[T](ctx, pop, cfg, r)
		if err != nil {
			return nil, err
		}
		out[i] = champion
	}
	return out, nil
}

func tournamentPick[T Gene[T]](ctx context.Context, pop []T, cfg TournamentConfig, r *rand.Rand) (T, error) {
	var best T
	bestFitness := 2.0 // worse than any real fitness in [0,1]
	for round := 0; round < cfg.Rounds; round++ {
		for draw := 0; draw < cfg.Size; draw++ {
			candidate, ok := randutil.UniformPick(r, pop)
			if !ok {
				continue
			}
			f, err := candidate.Fitness(ctx, nil)
			if err != nil {
				var zero T
				return zero, err
			}
			if f < bestFitness {
				bestFitness = f
				best = candidate
			}
		}
	}
	return best, nil
}

// searchIslands runs an island model: cfg.Island.Count independent
// populations, each PopulationSize individuals, migrating every
// MigrationInterval generations (spec §4.7, "Island migration").
func searchIslands[T Gene[T]](ctx context.Context, cfg Config, initial InitialPopulationFunc[T], r *rand.Rand) ([]T, error) {
	islandCfg := *cfg.Island
	single := cfg
	single.Island = nil

	islands := make([][]T, islandCfg.Count)
	for i := range islands {
		pop, err := initial(ctx, cfg.PopulationSize, r)
		if err != nil {
			return nil, err
		}
		islands[i] = pop
	}

	deadline := time.Now().Add(time.Duration(cfg.TimeoutInMinutes * float64(time.Minute)))
	var accumulated []T

	for gen := 0; gen < cfg.Iterations; gen++ {
		if time.Now().After(deadline) {
			break
		}

		for i, pop := range islands {
			survivors, winners, err := runGeneration[T](ctx, single, pop, r)
			if err != nil {
				return nil, err
			}
			islands[i] = survivors
			accumulated = append(accumulated, winners...)
			if cfg.StopOnResults && len(winners) > 0 {
				return accumulated, nil
			}
			if cfg.ReplaceWinners && len(winners) > 0 {
				islands[i], err = refillAfterWinners[T](ctx, single, survivors, winners, initial, r)
				if err != nil {
					return nil, err
				}
			}
		}

		if islandCfg.MigrationInterval > 0 && (gen+1)%islandCfg.MigrationInterval == 0 {
			migrated, err := migrate[T](ctx, islands, islandCfg, r)
			if err != nil {
				return nil, err
			}
			islands = migrated
		}
	}

	return accumulated, nil
}

// migrate implements spec §4.7's "Island migration": sort each island
// ascending by fitness, take the top MigrationSize as migrants, drop the
// bottom MigrationSize as vacated slots, rotate migrants (ring-wise or
// shuffled across islands), and recombine each island as
// remaining ++ incomingMigrants.
func migrate[T Gene[T]](ctx context.Context, islands [][]T, cfg IslandConfig, r *rand.Rand) ([][]T, error) {
	remaining := make([][]T, len(islands))
	migrantSets := make([][]T, len(islands))

	for i, pop := range islands {
		scored, err := scoreAll[T](ctx, pop, nil)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(scored, func(a, b int) bool { return scored[a].fitness < scored[b].fitness })

		size := cfg.MigrationSize
		if size > len(scored) {
			size = len(scored)
		}
		migrants := make([]T, size)
		for j := 0; j < size; j++ {
			migrants[j] = scored[j].ind
		}
		rest := make([]T, 0, len(scored)-size)
		for j := 0; j < len(scored)-size; j++ {
			rest = append(rest, scored[j].ind)
		}
		remaining[i] = rest
		migrantSets[i] = migrants
	}

	var rotated [][]T
	if cfg.Ringwise {
		rotated = make([][]T, len(migrantSets))
		for i := range migrantSets {
			rotated[i] = migrantSets[(i+1)%len(migrantSets)]
		}
	} else {
		order := randutil.Shuffle(r, indexRange(len(migrantSets)))
		rotated = make([][]T, len(migrantSets))
		for i, src := range order {
			rotated[i] = migrantSets[src]
		}
	}

	out := make([][]T, len(islands))
	for i := range islands {
		out[i] = append(remaining[i], rotated[i]...)
	}
	return out, nil
}

func indexRange(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
