package mini

import (
	"testing"
	"time"
)

func evalSrc(t *testing.T, src string, env *REnv) Value {
	t.Helper()
	e := mustParse(t, src)
	v, err := Eval(e, env)
	if err != nil {
		t.Fatalf("Eval(%q) failed: %v", src, err)
	}
	return v
}

func TestEvalArithmetic(t *testing.T) {
	v := evalSrc(t, "1 + 2 * 3", nil)
	if v.(VInt) != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestEvalIfAndComparison(t *testing.T) {
	v := evalSrc(t, "if 1 < 2 then 10 else 20", nil)
	if v.(VInt) != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}

func TestEvalShortCircuitAnd(t *testing.T) {
	// the right operand would diverge if forced; && must not force it once
	// the left operand is already false.
	v := evalSrc(t, "false && (let x = x in x)", nil)
	if v.(VBool) != false {
		t.Fatalf("expected false, got %v", v)
	}
}

func TestEvalLambdaApplication(t *testing.T) {
	v := evalSrc(t, "(fn x -> x + 1) 41", nil)
	if v.(VInt) != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestEvalRecursiveLet(t *testing.T) {
	src := "let fact = fn n -> if n == 0 then 1 else n * fact (n - 1) in fact 5"
	v := evalSrc(t, src, nil)
	if v.(VInt) != 120 {
		t.Fatalf("expected 120, got %v", v)
	}
}

func TestEvalLazyListNeverForcesUnusedElement(t *testing.T) {
	src := "let xs = [1, let x = x in x] in headList xs"
	v := evalSrc(t, src, BaseEnv())
	if v.(VInt) != 1 {
		t.Fatalf("expected 1, got %v", v)
	}
}

func TestEvalNonTerminatingLoopDoesNotOverflowStack(t *testing.T) {
	// Force on a non-productive self-reference must busy-spin rather than
	// recurse, so it is the sandbox's wall-clock timeout that bounds it,
	// not a Go stack overflow. We bound our own wait here instead of
	// actually hanging the test suite.
	done := make(chan struct{})
	go func() {
		_, _ = evalSrcNoFatal("let x = x in x")
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("evaluating a non-productive self-reference terminated unexpectedly")
	case <-time.After(50 * time.Millisecond):
		// still spinning, as expected; nothing to assert further without a
		// real process-level timeout (exercised by the sandbox package).
	}
}

func evalSrcNoFatal(src string) (Value, error) {
	e, err := ParseExpr(src)
	if err != nil {
		return nil, err
	}
	return Eval(e, nil)
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := evalSrcNoFatal("1 / 0")
	if err == nil {
		t.Fatal("expected a division-by-zero runtime error")
	}
}

func TestEvalFoldlViaPrelude(t *testing.T) {
	env := BaseEnv()
	for _, name := range []string{"foldl", "map", "filter"} {
		pe, err := ParseExpr(Prelude()[name])
		if err != nil {
			t.Fatalf("parsing prelude %q failed: %v", name, err)
		}
		let := pe.(*Let)
		th := NewThunk(let.Value, nil)
		env = env.bind(name, th)
		th.env = env
	}
	v := evalSrc(t, "foldl (fn acc -> fn x -> acc + x) 0 [1, 2, 3, 4]", env)
	if v.(VInt) != 10 {
		t.Fatalf("expected 10, got %v", v)
	}
}
