package efixgene

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kanso-lang/repairgo/internal/ga"
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
	oraclemini "github.com/kanso-lang/repairgo/internal/oracle/mini"
)

func mustParse(t *testing.T, src string) mini.Expr {
	t.Helper()
	e, err := mini.ParseExpr(src)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return e
}

func sumProblem(t *testing.T) oracle.Problem {
	return oracle.Problem{
		Program: mustParse(t, "foldl (fn a -> fn b -> a - b) 0"),
		Type:    mini.ArrowN(mini.Int(), mini.List(mini.Int())),
		Properties: []oracle.Property{
			{Name: "prop_isSum", Expr: mustParse(t, "fn f -> f [1, 2, 3] == 6")},
		},
		Context: []oracle.ContextBinding{
			{Name: "foldl", Type: mini.FoldlTypes(mini.Int(), mini.Int())["foldl"], Value: mustParse(t, mini.Prelude()["foldl"])},
		},
	}
}

func TestInitialPopulationSamplesSingleStepFixes(t *testing.T) {
	env := NewEnv(oraclemini.New(), oracle.Config{HoleLevel: 1}, sumProblem(t))
	r := rand.New(rand.NewSource(1))

	pop, err := InitialPopulation(env)(context.Background(), 5, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pop) != 5 {
		t.Fatalf("expected sampling with replacement to fill the population to the requested size, got %d", len(pop))
	}
	for _, ind := range pop {
		if ind.Fix.Len() != 1 {
			t.Fatalf("expected every initial individual to carry exactly one single-step entry, got %d", ind.Fix.Len())
		}
	}
}

func TestMutateShrinksOrExtends(t *testing.T) {
	env := NewEnv(oraclemini.New(), oracle.Config{HoleLevel: 1}, sumProblem(t))
	r := rand.New(rand.NewSource(2))

	pop, err := InitialPopulation(env)(context.Background(), 1, r)
	if err != nil || len(pop) == 0 {
		t.Fatalf("setup failed: %v, %d individuals", err, len(pop))
	}

	child, _, err := pop[0].Mutate(context.Background(), r, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.Fix.Len() < pop[0].Fix.Len() {
		t.Fatalf("with dropRate 0, mutation should never shrink the fix")
	}
}

func TestFitnessReachesZeroForASearch(t *testing.T) {
	env := NewEnv(oraclemini.New(), oracle.Config{HoleLevel: 1}, sumProblem(t))
	cfg := ga.DefaultConfig()
	cfg.PopulationSize = 8
	cfg.Iterations = 10

	r := rand.New(rand.NewSource(3))
	winners, err := ga.Search[Individual](context.Background(), cfg, InitialPopulation(env), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) == 0 {
		t.Fatalf("expected the search to find at least one winning fix")
	}
	for _, w := range winners {
		score, err := w.Fitness(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error scoring winner: %v", err)
		}
		if score != 0 {
			t.Fatalf("winner %+v does not actually score 0", w.Fix)
		}
	}
}
