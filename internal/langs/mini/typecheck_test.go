package mini

import "testing"

func TestInferLiterals(t *testing.T) {
	tInt, err := Infer(mustParse(t, "1"), Env{})
	if err != nil || tInt.Kind != KInt {
		t.Fatalf("expected Int, got %v err=%v", tInt, err)
	}
	tBool, err := Infer(mustParse(t, "true"), Env{})
	if err != nil || tBool.Kind != KBool {
		t.Fatalf("expected Bool, got %v err=%v", tBool, err)
	}
}

func TestInferUndefinedVariable(t *testing.T) {
	_, err := Infer(mustParse(t, "x"), Env{})
	if err == nil {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestInferApplicationAndIf(t *testing.T) {
	env := Env{"double": Arrow(Int(), Int())}
	ty, err := Infer(mustParse(t, "if true then double 1 else 2"), env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Kind != KInt {
		t.Fatalf("expected Int, got %v", ty)
	}
}

func TestInferNotAFunction(t *testing.T) {
	env := Env{"n": Int()}
	_, err := Infer(mustParse(t, "n 1"), env)
	if err == nil {
		t.Fatal("expected a not-a-function error")
	}
}

func TestCheckLambdaAgainstArrowType(t *testing.T) {
	e := mustParse(t, "fn x -> x + 1")
	if err := Check(e, Arrow(Int(), Int()), Env{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckRejectsTypeMismatch(t *testing.T) {
	e := mustParse(t, "1")
	if err := Check(e, Bool(), Env{}); err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

func TestCheckHoleTypeRecoversExpectedType(t *testing.T) {
	e := mustParse(t, "1 + ?")
	holeType, _, err := CheckHoleType(e, Int(), Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holeType.Kind != KInt {
		t.Fatalf("expected the hole's required type to be Int, got %v", holeType)
	}
}

func TestCheckHoleTypePropagatesThroughIf(t *testing.T) {
	e := mustParse(t, "if true then ? else false")
	holeType, _, err := CheckHoleType(e, Bool(), Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holeType.Kind != KBool {
		t.Fatalf("expected the hole's required type to be Bool, got %v", holeType)
	}
}

func TestCheckHoleTypeErrorsWithoutAHole(t *testing.T) {
	e := mustParse(t, "1 + 1")
	_, _, err := CheckHoleType(e, Int(), Env{})
	if err == nil {
		t.Fatal("expected an ambiguous-hole error when the expression has no hole")
	}
}

func TestCheckHoleTypeRecoversEnvFromEnclosingLambda(t *testing.T) {
	e := mustParse(t, "fn a -> fn b -> a - ?")
	holeType, holeEnv, err := CheckHoleType(e, Arrow(Int(), Arrow(Int(), Int())), Env{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if holeType.Kind != KInt {
		t.Fatalf("expected the hole's required type to be Int, got %v", holeType)
	}
	if holeEnv["a"] == nil || holeEnv["a"].Kind != KInt {
		t.Fatalf("expected the hole's environment to carry the enclosing lambda's binding a:Int, got %v", holeEnv)
	}
	if holeEnv["b"] == nil || holeEnv["b"].Kind != KInt {
		t.Fatalf("expected the hole's environment to carry the enclosing lambda's binding b:Int, got %v", holeEnv)
	}
}

func TestCheckLetBindingVisibleInValueAndBody(t *testing.T) {
	e := mustParse(t, "let f = fn n -> if n == 0 then 1 else n * f (n - 1) in f")
	if err := Check(e, Arrow(Int(), Int()), Env{}); err != nil {
		t.Fatalf("unexpected error on recursive let: %v", err)
	}
}
