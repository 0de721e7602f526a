package mini

import "testing"

func TestParseTypeSimple(t *testing.T) {
	ty, err := ParseType("Int")
	if err != nil || ty.Kind != KInt {
		t.Fatalf("expected Int, got %v err=%v", ty, err)
	}
}

func TestParseTypeListAndArrow(t *testing.T) {
	ty, err := ParseType("[Int] -> Int")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind != KArrow || ty.From.Kind != KList || ty.From.Elem.Kind != KInt || ty.To.Kind != KInt {
		t.Fatalf("unexpected type shape: %v", ty)
	}
}

func TestParseTypeArrowIsRightAssociative(t *testing.T) {
	ty, err := ParseType("Int -> Int -> Bool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args, result := Args(ty)
	if len(args) != 2 || args[0].Kind != KInt || args[1].Kind != KInt || result.Kind != KBool {
		t.Fatalf("unexpected curried shape: args=%v result=%v", args, result)
	}
}
