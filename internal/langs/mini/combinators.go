package mini

import (
	"sync/atomic"

	"github.com/kanso-lang/repairgo/internal/span"
)

// Fit is a single candidate expression offered to fill a hole, paired with
// a human-readable label identifying where it came from (a context name, a
// literal, or a combinator skeleton) — mirroring the oracle's Fit type.
// SubHoleTypes gives the required type of each Hole node appearing in Expr,
// in the order Walk visits them; it is empty for a direct fit.
type Fit struct {
	Expr         Expr
	Label        string
	SubHoleTypes []*Type
}

// syntheticSpanSeq mints the Offset each freshSpan call stamps a synthetic
// node with. Negative, monotonically decreasing offsets keep every
// synthetic span distinct from every other synthetic span and from any real
// parsed span (whose offsets are non-negative), so Replace's span-equality
// check can't match a skeleton's own wrapper node (or one of its sibling
// holes) before reaching the hole a caller actually intends to fill.
var syntheticSpanSeq int64

func freshSpan() span.Span {
	n := atomic.AddInt64(&syntheticSpanSeq, 1)
	p := span.Position{Line: -1, Column: -1, Offset: -int(n)}
	return span.Span{Start: p, End: p}
}

func ident(name string) Expr { return &Ident{base: mk(freshSpan()), Name: name} }

func intLit(v int64) Expr { return &IntLit{base: mk(freshSpan()), Value: v} }

func boolLit(v bool) Expr { return &BoolLit{base: mk(freshSpan()), Value: v} }

// DirectFits enumerates every context binding and small literal whose type
// is exactly expected: the first half of getHoleFits, requiring no
// refinement search at all.
func DirectFits(expected *Type, env Env) []Fit {
	var out []Fit
	for name, t := range env {
		if Equal(t, expected) {
			out = append(out, Fit{Expr: ident(name), Label: name})
		}
	}
	switch expected.Kind {
	case KInt:
		for _, v := range []int64{0, 1, -1, 2} {
			out = append(out, Fit{Expr: intLit(v), Label: intLitLabel(v)})
		}
	case KBool:
		out = append(out, Fit{Expr: boolLit(true), Label: "true"}, Fit{Expr: boolLit(false), Label: "false"})
	case KList:
		out = append(out, Fit{Expr: &ListLit{base: mk(freshSpan())}, Label: "[]"})
	}
	return out
}

func intLitLabel(v int64) string {
	switch v {
	case 0:
		return "0"
	case 1:
		return "1"
	case -1:
		return "-1"
	default:
		return "2"
	}
}

// RefinementFits enumerates partially-applied combinator skeletons whose
// remaining holes getHoleFits would need to recurse into — arithmetic
// operators, if-then-else, and, when a list-producing binding of a
// compatible element type is in scope, foldl/map/filter. Each skeleton is
// built with fresh Hole placeholders at every still-unknown argument
// position, exactly the shape the repair driver re-submits for nested
// hole-filling.
func RefinementFits(expected *Type, env Env) []Fit {
	var out []Fit
	h := func() Expr { return &Hole{base: mk(freshSpan())} }

	switch expected.Kind {
	case KInt:
		for _, op := range []string{"+", "-", "*"} {
			out = append(out, Fit{
				Expr:         &BinOp{base: mk(freshSpan()), Op: op, Left: h(), Right: h()},
				Label:        "(? " + op + " ?)",
				SubHoleTypes: []*Type{Int(), Int()},
			})
		}
	case KBool:
		for _, op := range []string{"==", "<", "<=", ">", ">="} {
			out = append(out, Fit{
				Expr:         &BinOp{base: mk(freshSpan()), Op: op, Left: h(), Right: h()},
				Label:        "(? " + op + " ?)",
				SubHoleTypes: []*Type{Int(), Int()},
			})
		}
		for _, op := range []string{"&&", "||"} {
			out = append(out, Fit{
				Expr:         &BinOp{base: mk(freshSpan()), Op: op, Left: h(), Right: h()},
				Label:        "(? " + op + " ?)",
				SubHoleTypes: []*Type{Bool(), Bool()},
			})
		}
	}

	out = append(out, Fit{
		Expr:         &If{base: mk(freshSpan()), Cond: h(), Then: h(), Else: h()},
		Label:        "if ? then ? else ?",
		SubHoleTypes: []*Type{Bool(), expected, expected},
	})

	for name, t := range env {
		if t.Kind != KList {
			continue
		}
		elem := t.Elem
		switch expected.Kind {
		case KInt:
			// foldl (fn acc -> fn x -> ?) ? list : folds elem-typed elements
			// down to the expected result type. Sub-holes, in Walk order:
			// the combiner's body, then the zero value.
			combiner := &Lambda{base: mk(freshSpan()), Param: "acc", Body: &Lambda{base: mk(freshSpan()), Param: "x", Body: h()}}
			out = append(out, Fit{
				Expr:         buildFoldl(combiner, h(), ident(name)),
				Label:        "foldl (fn acc -> fn x -> ?) ? " + name,
				SubHoleTypes: []*Type{expected, expected},
			})
		case KList:
			if Equal(elem, expected.Elem) {
				pred := &Lambda{base: mk(freshSpan()), Param: "x", Body: h()}
				out = append(out, Fit{
					Expr:         buildFilter(pred, ident(name)),
					Label:        "filter (fn x -> ?) " + name,
					SubHoleTypes: []*Type{Bool()},
				})
			}
			// map's output element type is expected.Elem, independent of
			// the source list's own element type.
			mapped := &Lambda{base: mk(freshSpan()), Param: "x", Body: h()}
			out = append(out, Fit{
				Expr:         buildMap(mapped, ident(name)),
				Label:        "map (fn x -> ?) " + name,
				SubHoleTypes: []*Type{expected.Elem},
			})
		}
	}

	return out
}

// buildFoldl, buildMap and buildFilter desugar the engine's three fixed
// list combinators into plain App/Ident nodes over names the oracle's
// context always provides (see Prelude), so the interpreter needs no
// special-cased builtin dispatch beyond ordinary function application.
func buildFoldl(combiner Expr, zero Expr, list Expr) Expr {
	return &App{base: mk(freshSpan()), Fn: &App{base: mk(freshSpan()), Fn: &App{base: mk(freshSpan()), Fn: ident("foldl"), Arg: combiner}, Arg: zero}, Arg: list}
}

func buildMap(f Expr, list Expr) Expr {
	return &App{base: mk(freshSpan()), Fn: &App{base: mk(freshSpan()), Fn: ident("map"), Arg: f}, Arg: list}
}

func buildFilter(pred Expr, list Expr) Expr {
	return &App{base: mk(freshSpan()), Fn: &App{base: mk(freshSpan()), Fn: ident("filter"), Arg: pred}, Arg: list}
}

// FoldlTypes, FilterTypes and MapTypes each return a one-entry typing Env
// holding a monomorphic instantiation of foldl's, filter's or map's
// signature. The combinators are polymorphic at runtime, but the type
// checker is monomorphic, so a caller that needs one of them in a typing
// environment adds the instantiation it needs.
func FoldlTypes(elem, result *Type) Env {
	return Env{"foldl": ArrowN(result, Arrow(result, Arrow(elem, result)), result, List(elem))}
}

func FilterTypes(elem *Type) Env {
	return Env{"filter": ArrowN(List(elem), Arrow(elem, Bool()), List(elem))}
}

func MapTypes(inElem, outElem *Type) Env {
	return Env{"map": ArrowN(List(outElem), Arrow(inElem, outElem), List(inElem))}
}

// Prelude returns the closed-form definitions of the three fixed list
// combinators referenced by RefinementFits, each as mini-language source to
// be parsed once and bound into every context's runtime environment
// alongside its own bindings. Keeping them as ordinary recursive
// let-bindings (rather than Go-native builtins) means the trampolined
// interpreter's single evaluation path also governs their termination
// behavior — a non-terminating predicate inside a filter call hangs and
// times out exactly like any other non-terminating candidate.
func Prelude() map[string]string {
	return map[string]string{
		"foldl": `let foldl = fn f -> fn z -> fn xs ->
			if emptyList xs then z else foldl f (f z (headList xs)) (tailList xs)
		in foldl`,
		"map": `let map = fn f -> fn xs ->
			if emptyList xs then xs else consList (f (headList xs)) (map f (tailList xs))
		in map`,
		"filter": `let filter = fn p -> fn xs ->
			if emptyList xs then xs
			else if p (headList xs) then consList (headList xs) (filter p (tailList xs))
			else filter p (tailList xs)
		in filter`,
	}
}
