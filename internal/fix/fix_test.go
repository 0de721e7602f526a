package fix

import (
	"testing"

	"github.com/kanso-lang/repairgo/internal/langs/mini"
	"github.com/kanso-lang/repairgo/internal/span"
)

func sp(start, end int) span.Span {
	return span.Span{Start: span.Position{Offset: start}, End: span.Position{Offset: end}}
}

func parseExpr(t *testing.T, src string) mini.Expr {
	t.Helper()
	e, err := mini.ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q) failed: %v", src, err)
	}
	return e
}

func TestMergeDropsOverlappingEntryFromRight(t *testing.T) {
	a := Empty().With(sp(0, 10), parseExpr(t, "1"))
	b := Empty().With(sp(2, 5), parseExpr(t, "2")).With(sp(20, 25), parseExpr(t, "3"))

	merged := Merge(a, b)
	if merged.Len() != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", merged.Len())
	}
	if merged[0].Span != sp(0, 10) || merged[1].Span != sp(20, 25) {
		t.Fatalf("unexpected merged entries: %+v", merged)
	}
}

func TestMergeOfEmptyFixes(t *testing.T) {
	if Merge(Empty(), Empty()).Len() != 0 {
		t.Fatal("expected empty merge of two empty fixes")
	}
}

func TestApplySubstitutesAtSpan(t *testing.T) {
	root := parseExpr(t, "1 + 2")
	rightOperand := root.(*mini.BinOp).Right
	f := Empty().With(rightOperand.Span(), parseExpr(t, "5"))

	got := mini.Show(Apply(root, f))
	if got != "1 + 5" {
		t.Fatalf("expected \"1 + 5\", got %q", got)
	}
}

func TestApplySkipsSpanContainedInEarlierApplied(t *testing.T) {
	root := parseExpr(t, "1 + 2")
	whole := root.Span()
	right := root.(*mini.BinOp).Right

	f := Empty().With(whole, parseExpr(t, "99")).With(right.Span(), parseExpr(t, "5"))

	got := mini.Show(Apply(root, f))
	if got != "99" {
		t.Fatalf("expected the whole-span replacement to win, got %q", got)
	}
}

func TestEqualComparesRenderedText(t *testing.T) {
	a := Empty().With(sp(0, 1), parseExpr(t, "1 + 1"))
	b := Empty().With(sp(0, 1), parseExpr(t, "1+1"))
	if !Equal(a, b) {
		t.Fatal("expected fixes with identically-rendered expressions to be equal")
	}
}
