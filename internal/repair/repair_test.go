package repair

import (
	"context"
	"strings"
	"testing"

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

// TestRepairFixesBrokenFoldl mirrors spec Scenario C: repairing
// `foldl (-) 0` to satisfy prop_isSum at type [Int] -> Int.
func TestRepairFixesBrokenFoldl(t *testing.T) {
	d := New(oraclemini.New())

	problem := oracle.Problem{
		Program: mustParse(t, "foldl (fn a -> fn b -> a - b) 0"),
		Type:    mini.ArrowN(mini.Int(), mini.List(mini.Int())),
		Properties: []oracle.Property{
			{Name: "prop_isSum", Expr: mustParse(t, "fn f -> f [1, 2, 3] == 6")},
		},
		Context: []oracle.ContextBinding{
			// foldl must be typed in the problem's context for getHoley's
			// type-checking pass to resolve the program's own use of it;
			// its runtime definition comes from mini.Prelude() regardless.
			{Name: "foldl", Type: mini.FoldlTypes(mini.Int(), mini.Int())["foldl"], Value: mustParse(t, mini.Prelude()["foldl"])},
		},
	}

	candidates, err := d.Repair(context.Background(), oracle.Config{HoleLevel: 1}, problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) == 0 {
		t.Fatalf("expected at least one repaired candidate, got none")
	}
	foundSum := false
	for _, c := range candidates {
		if c == "" {
			t.Fatalf("expected only non-empty candidate text in %v", candidates)
		}
		if strings.Contains(c, "a + b") {
			foundSum = true
		}
	}
	if !foundSum {
		t.Fatalf("expected some candidate to replace the combiner's `a - b` with `a + b`, got %v", candidates)
	}
}

func TestRepairAttemptPreservesSiteOrderAndReturnsVerdicts(t *testing.T) {
	d := New(oraclemini.New())

	problem := oracle.Problem{
		Program: mustParse(t, "1 + 1"),
		Type:    mini.Int(),
		Properties: []oracle.Property{
			{Name: "prop_isFour", Expr: mustParse(t, "fn n -> n == 4")},
		},
	}

	attempts, err := d.RepairAttempt(context.Background(), oracle.Config{HoleLevel: 0}, problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(attempts) == 0 {
		t.Fatalf("expected at least one single-step attempt")
	}
	for _, a := range attempts {
		if a.Fix.Len() != 1 {
			t.Fatalf("expected each single-step attempt to carry exactly one fix entry, got %d", a.Fix.Len())
		}
	}
}

func TestRepairAttemptOnAlreadyPassingProgramCanStillReturnAttempts(t *testing.T) {
	d := New(oraclemini.New())

	// "2" is one of DirectFits' fixed Int literal candidates (0, 1, -1, 2),
	// so replacing the whole program with itself is one of the single-step
	// candidates synthesized here — a case where the attempt is its own
	// winner.
	problem := oracle.Problem{
		Program: mustParse(t, "2"),
		Type:    mini.Int(),
		Properties: []oracle.Property{
			{Name: "prop_isTwo", Expr: mustParse(t, "fn n -> n == 2")},
		},
	}

	attempts, err := d.RepairAttempt(context.Background(), oracle.Config{HoleLevel: 0}, problem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	foundWinner := false
	for _, a := range attempts {
		if a.Verdict.IsWinner() {
			foundWinner = true
		}
	}
	if !foundWinner {
		t.Fatalf("expected at least one attempt to verify as a winner")
	}
}
