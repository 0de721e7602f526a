package mini

import "testing"

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q) failed: %v", src, err)
	}
	return e
}

func TestParseRoundTripsThroughShow(t *testing.T) {
	cases := []string{
		"1",
		"true",
		"x",
		"?",
		"fn x -> x",
		"f x",
		"f x y",
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"1 - 2 - 3",
		"if x then 1 else 2",
		"let x = 1 in x + 1",
		"x == 1 && y == 2",
		"[1, 2, 3]",
	}
	for _, src := range cases {
		e := mustParse(t, src)
		got := Show(e)
		e2 := mustParse(t, got)
		got2 := Show(e2)
		if got != got2 {
			t.Errorf("Show not idempotent for %q: first pass %q, second pass %q", src, got, got2)
		}
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	e := mustParse(t, "1 - 2 - 3")
	bin, ok := e.(*BinOp)
	if !ok {
		t.Fatalf("expected top-level BinOp, got %T", e)
	}
	if bin.Op != "-" {
		t.Fatalf("expected top-level op '-', got %q", bin.Op)
	}
	left, ok := bin.Left.(*BinOp)
	if !ok {
		t.Fatalf("expected left operand to be BinOp, got %T", bin.Left)
	}
	if left.Op != "-" {
		t.Fatalf("expected nested op '-', got %q", left.Op)
	}
}

func TestParsePrecedenceMultiplyBeforeAdd(t *testing.T) {
	e := mustParse(t, "1 + 2 * 3")
	bin, ok := e.(*BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", e)
	}
	if _, ok := bin.Right.(*BinOp); !ok {
		t.Fatalf("expected right operand to be the nested multiplication, got %T", bin.Right)
	}
}

func TestParseApplicationIsLeftAssociativeAndBindsTighterThanBinOp(t *testing.T) {
	e := mustParse(t, "f x + 1")
	bin, ok := e.(*BinOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %#v", e)
	}
	if _, ok := bin.Left.(*App); !ok {
		t.Fatalf("expected left operand to be an application, got %T", bin.Left)
	}
}

func TestParseLetRecSelfReference(t *testing.T) {
	e := mustParse(t, "let f = fn n -> f n in f")
	let, ok := e.(*Let)
	if !ok {
		t.Fatalf("expected Let, got %T", e)
	}
	if let.Name != "f" {
		t.Fatalf("expected binding name 'f', got %q", let.Name)
	}
}

func TestParseHoleAtom(t *testing.T) {
	e := mustParse(t, "1 + ?")
	bin := e.(*BinOp)
	if _, ok := bin.Right.(*Hole); !ok {
		t.Fatalf("expected a Hole as the right operand, got %T", bin.Right)
	}
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseExpr("1 2 )")
	if err == nil {
		t.Fatal("expected a parse error for trailing ')'")
	}
}

func TestParseSpanCoversWholeExpression(t *testing.T) {
	e := mustParse(t, "1 + 2")
	s := e.Span()
	if s.Start.Offset != 0 || s.End.Offset != 5 {
		t.Errorf("expected span [0,5), got [%d,%d)", s.Start.Offset, s.End.Offset)
	}
}
