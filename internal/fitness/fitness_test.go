package fitness

import (
	"context"
	"testing"

	"github.com/kanso-lang/repairgo/internal/fix"
	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/oracle"
	oraclemini "github.com/kanso-lang/repairgo/internal/oracle/mini"
	"github.com/kanso-lang/repairgo/internal/span"
	"github.com/kanso-lang/repairgo/internal/verdict"
)

func mustParse(t *testing.T, src string) mini.Expr {
	t.Helper()
	e, err := mini.ParseExpr(src)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	return e
}

func TestScoreFormula(t *testing.T) {
	cases := []struct {
		name string
		v    verdict.Verdict
		want float64
	}{
		{"pass", verdict.Pass(), 0},
		{"fail", verdict.Fail(), 1},
		{"timeout", verdict.TimedOut(), 1},
		{"partial half", verdict.PartialBits([]bool{true, false}), 0.5},
		{"partial mostly-true", verdict.PartialBits([]bool{true, true, true, false}), 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Score(c.v); got != c.want {
				t.Fatalf("Score(%v) = %v, want %v", c.v, got, c.want)
			}
		})
	}
}

func TestFitnessUsesPrecomputedVerdictWithoutCallingOracle(t *testing.T) {
	program := mustParse(t, "1")
	problem := oracle.Problem{Type: mini.Int()}
	e := New(oraclemini.New(), problem, program)

	precomputed := verdict.Pass()
	score, err := e.Fitness(context.Background(), fix.Empty(), &precomputed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected fitness 0 for a precomputed AllPass verdict, got %v", score)
	}
}

func TestFitnessIsCached(t *testing.T) {
	program := mustParse(t, "1")
	problem := oracle.Problem{Type: mini.Int()}
	e := New(oraclemini.New(), problem, program)

	f := fix.Empty().With(span.Span{}, mustParse(t, "2"))
	precomputed := verdict.PartialBits([]bool{true, false})
	first, err := e.Fitness(context.Background(), f, &precomputed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := e.Cache.lookup(f); !ok {
		t.Fatalf("expected the fix to be cached after the first lookup")
	}

	// A second call with no precomputed verdict and a fix that would crash
	// the oracle (span.Span{} applied to a real program may be a no-op or
	// error) must still return the cached value instead of recomputing.
	second, err := e.Fitness(context.Background(), f, nil)
	if err != nil {
		t.Fatalf("unexpected error on cached lookup: %v", err)
	}
	if first != second {
		t.Fatalf("expected cached fitness to be returned unchanged, got %v then %v", first, second)
	}
}
