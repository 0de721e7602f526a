package mini

import "github.com/kanso-lang/repairgo/internal/span"

// Expr is the interface implemented by every expression node of the mini
// language. It mirrors the teacher's ast.Node/ast.Expr split: position
// tracking is mandatory, node identity is a marker method.
type Expr interface {
	Span() span.Span
	isExpr()
}

type base struct {
	S span.Span
}

func (b base) Span() span.Span { return b.S }

// IntLit is an integer literal.
type IntLit struct {
	base
	Value int64
}

// BoolLit is a boolean literal.
type BoolLit struct {
	base
	Value bool
}

// ListLit is a literal list, e.g. [1, 2, 3].
type ListLit struct {
	base
	Elems []Expr
}

// Ident is a reference to a context or let-bound name.
type Ident struct {
	base
	Name string
}

// Hole marks an unresolved repair site or synthesis target. Annotated is
// set by typed-hole inference (see typecheck.go) once its required type is
// known; it is nil before inference runs.
type Hole struct {
	base
	Annotated *Type
}

// Lambda is a single-argument function literal; multi-argument functions
// are curried chains of Lambda.
type Lambda struct {
	base
	Param string
	Body  Expr
}

// App is function application by juxtaposition: Fn Arg.
type App struct {
	base
	Fn  Expr
	Arg Expr
}

// BinOp is an infix binary operator application.
type BinOp struct {
	base
	Op    string
	Left  Expr
	Right Expr
}

// If is a conditional expression.
type If struct {
	base
	Cond, Then, Else Expr
}

// Let is a (recursive) local binding: Name is visible within Value itself,
// enabling self-referential definitions such as `let f = ... f ... in f`.
type Let struct {
	base
	Name  string
	Value Expr
	Body  Expr
}

func (*IntLit) isExpr()  {}
func (*BoolLit) isExpr() {}
func (*ListLit) isExpr() {}
func (*Ident) isExpr()   {}
func (*Hole) isExpr()    {}
func (*Lambda) isExpr()  {}
func (*App) isExpr()     {}
func (*BinOp) isExpr()   {}
func (*If) isExpr()      {}
func (*Let) isExpr()     {}

func mk(s span.Span) base { return base{S: s} }

// Walk visits every expression node in e, including e itself, calling visit
// pre-order. It is the traversal behind Holes and Subexprs (getHoley's
// subexpression enumeration).
func Walk(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ListLit:
		for _, el := range n.Elems {
			Walk(el, visit)
		}
	case *Lambda:
		Walk(n.Body, visit)
	case *App:
		Walk(n.Fn, visit)
		Walk(n.Arg, visit)
	case *BinOp:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case *If:
		Walk(n.Cond, visit)
		Walk(n.Then, visit)
		Walk(n.Else, visit)
	case *Let:
		Walk(n.Value, visit)
		Walk(n.Body, visit)
	}
}

// Holes returns every *Hole node in e, in Walk (pre-order) order. This is
// the traversal RefinementFits' SubHoleTypes is keyed against, and what
// getHoleFits uses to confirm a HoleyExpr carries exactly one hole.
func Holes(e Expr) []*Hole {
	var out []*Hole
	Walk(e, func(n Expr) {
		if h, ok := n.(*Hole); ok {
			out = append(out, h)
		}
	})
	return out
}

// Subexprs returns every node in e, in Walk (pre-order) order, including e
// itself. getHoley uses this to enumerate every span eligible to become a
// repair site.
func Subexprs(e Expr) []Expr {
	var out []Expr
	Walk(e, func(n Expr) { out = append(out, n) })
	return out
}

// Replace returns a copy of root with the unique subexpression occupying
// target's span replaced by repl. It is used both to fill a hole
// (fillHole) and to apply a fix (replaceExpr/apply).
func Replace(root Expr, target span.Span, repl Expr) Expr {
	if root.Span() == target {
		return repl
	}
	switch n := root.(type) {
	case *ListLit:
		out := make([]Expr, len(n.Elems))
		changed := false
		for i, el := range n.Elems {
			out[i] = Replace(el, target, repl)
			if out[i] != el {
				changed = true
			}
		}
		if !changed {
			return root
		}
		return &ListLit{base: n.base, Elems: out}
	case *Lambda:
		body := Replace(n.Body, target, repl)
		if body == n.Body {
			return root
		}
		return &Lambda{base: n.base, Param: n.Param, Body: body}
	case *App:
		fn := Replace(n.Fn, target, repl)
		arg := Replace(n.Arg, target, repl)
		if fn == n.Fn && arg == n.Arg {
			return root
		}
		return &App{base: n.base, Fn: fn, Arg: arg}
	case *BinOp:
		left := Replace(n.Left, target, repl)
		right := Replace(n.Right, target, repl)
		if left == n.Left && right == n.Right {
			return root
		}
		return &BinOp{base: n.base, Op: n.Op, Left: left, Right: right}
	case *If:
		cond := Replace(n.Cond, target, repl)
		then := Replace(n.Then, target, repl)
		els := Replace(n.Else, target, repl)
		if cond == n.Cond && then == n.Then && els == n.Else {
			return root
		}
		return &If{base: n.base, Cond: cond, Then: then, Else: els}
	case *Let:
		value := Replace(n.Value, target, repl)
		body := Replace(n.Body, target, repl)
		if value == n.Value && body == n.Body {
			return root
		}
		return &Let{base: n.base, Name: n.Name, Value: value, Body: body}
	default:
		return root
	}
}
