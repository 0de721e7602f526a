package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kanso-lang/repairgo/internal/verdict"
)

// intGene is a minimal Gene[T] used only to exercise the search loop: it
// hill-climbs an integer towards a fixed target, with fitness the normalized
// distance. It has no connection to the repair domain; internal/ga/efixgene
// is the real instantiation.
type intGene struct {
	value  int
	target int
}

func (g intGene) Crossover(_ context.Context, other intGene, r *rand.Rand) (intGene, intGene, error) {
	mid := (g.value + other.value) / 2
	return intGene{value: mid, target: g.target}, intGene{value: other.value, target: g.target}, nil
}

func (g intGene) Mutate(_ context.Context, r *rand.Rand, _ float64) (intGene, *verdict.Verdict, error) {
	step := 1
	if g.value > g.target {
		step = -1
	} else if g.value == g.target {
		step = 0
	}
	return intGene{value: g.value + step, target: g.target}, nil, nil
}

func (g intGene) Fitness(_ context.Context, _ *verdict.Verdict) (float64, error) {
	d := g.value - g.target
	if d < 0 {
		d = -d
	}
	if d == 0 {
		return 0, nil
	}
	if d > 10 {
		return 1, nil
	}
	return float64(d) / 10, nil
}

func intPopulation(target int, spread int) InitialPopulationFunc[intGene] {
	return func(_ context.Context, size int, r *rand.Rand) ([]intGene, error) {
		out := make([]intGene, size)
		for i := range out {
			out[i] = intGene{value: target + spread - r.Intn(2*spread+1), target: target}
		}
		return out, nil
	}
}

func TestSearchConvergesToWinner(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 8
	cfg.Iterations = 50
	cfg.MutationRate = 0.8
	cfg.CrossoverRate = 0.5

	r := rand.New(rand.NewSource(1))
	winners, err := Search[intGene](context.Background(), cfg, intPopulation(5, 8), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) == 0 {
		t.Fatalf("expected at least one winner to converge on target 5")
	}
	for _, w := range winners {
		if w.value != w.target {
			t.Fatalf("winner %+v did not actually reach its target", w)
		}
	}
}

func TestSearchWithTournamentSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 8
	cfg.Iterations = 50
	cfg.MutationRate = 0.9
	cfg.CrossoverRate = 0.3
	cfg.Tournament = &TournamentConfig{Size: 3, Rounds: 1}

	r := rand.New(rand.NewSource(2))
	winners, err := Search[intGene](context.Background(), cfg, intPopulation(3, 6), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range winners {
		if w.value != w.target {
			t.Fatalf("winner %+v did not actually reach its target", w)
		}
	}
}

func TestSearchWithIslandsMigrates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 6
	cfg.Iterations = 40
	cfg.MutationRate = 0.9
	cfg.CrossoverRate = 0.3
	cfg.Island = &IslandConfig{Count: 3, MigrationInterval: 5, MigrationSize: 1, Ringwise: true}

	r := rand.New(rand.NewSource(3))
	winners, err := Search[intGene](context.Background(), cfg, intPopulation(7, 9), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) == 0 {
		t.Fatalf("expected islands search to find at least one winner")
	}
}

func TestSearchStopsEarlyWhenStopOnResults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 4
	cfg.Iterations = 1000
	cfg.MutationRate = 1
	cfg.StopOnResults = true

	r := rand.New(rand.NewSource(4))
	winners, err := Search[intGene](context.Background(), cfg, intPopulation(0, 1), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) == 0 {
		t.Fatalf("expected an immediate winner since spread 1 already contains the target")
	}
}
