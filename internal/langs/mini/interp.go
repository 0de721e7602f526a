package mini

import "fmt"

// Value is the result of evaluating a mini-language expression to weak
// head normal form.
type Value interface{ isValue() }

type VInt int64
type VBool bool

// VList holds its elements as thunks, so e.g. `headList [1, loop]` never
// forces the second element.
type VList struct{ Elems []*Thunk }

// VClosure is a lambda paired with the environment it closed over.
type VClosure struct {
	Param string
	Body  Expr
	Env   *REnv
}

// VBuiltin is a native, strict-in-its-single-argument Go function exposed
// to mini-language programs as an ordinary callable value. The list
// primitives (emptyList/headList/tailList/consList) are the only builtins;
// everything built atop them (foldl/map/filter, see combinators.go's
// Prelude) is ordinary recursive mini-language source, so their
// termination behavior is governed by the same trampolined Force loop as
// any other candidate.
type VBuiltin struct {
	Name string
	Fn   func(arg *Thunk) (Value, error)
}

func (VInt) isValue()     {}
func (VBool) isValue()    {}
func (VList) isValue()    {}
func (VClosure) isValue() {}
func (VBuiltin) isValue() {}

// REnv is the runtime (evaluation) environment: an immutable, persistent
// linked scope, so closures can safely share a parent without copying.
type REnv struct {
	name   string
	thunk  *Thunk
	parent *REnv
}

func (e *REnv) lookup(name string) (*Thunk, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.thunk, true
		}
	}
	return nil, false
}

func (e *REnv) bind(name string, t *Thunk) *REnv {
	return &REnv{name: name, thunk: t, parent: e}
}

// Bind extends e with name bound to t. Exported for callers outside this
// package that assemble a runtime environment directly, such as
// checkbuild's Check evaluator.
func (e *REnv) Bind(name string, t *Thunk) *REnv { return e.bind(name, t) }

// SetEnv rebinds t's closure environment after construction, used to tie
// the self-referential knot for a recursive top-level binding: the thunk
// must close over an environment that already contains its own name.
func (t *Thunk) SetEnv(env *REnv) { t.env = env }

// Thunk is a suspended, memoized computation: it is forced at most once.
type Thunk struct {
	expr Expr
	env  *REnv

	done bool
	val  Value
	err  error

	// resolved, when set, short-circuits forcing: used to seed context
	// bindings and already-evaluated results without re-walking an expr.
	resolved bool
}

func NewThunk(e Expr, env *REnv) *Thunk { return &Thunk{expr: e, env: env} }

func ValueThunk(v Value) *Thunk { return &Thunk{done: true, resolved: true, val: v} }

// tailNext is returned internally by evalStep when the next computation is
// itself just another thunk to chase (e.g. an Ident lookup, or a Let
// binding its result straight through). Force trampolines over this case
// without growing the Go call stack, so that a non-productive loop like
// `let x = x in x` spins forever instead of overflowing the stack — the
// sandboxed runner's wall-clock timeout is what actually bounds it, per
// the engine's process-isolation design.
type tailNext struct{ t *Thunk }

func (tailNext) isValue() {}

// Force evaluates t to WHNF, memoizing the result.
func (t *Thunk) Force() (Value, error) {
	cur := t
	for {
		if cur.done {
			return cur.val, cur.err
		}
		v, err := evalStep(cur.expr, cur.env)
		if err != nil {
			cur.done, cur.err = true, err
			return nil, err
		}
		if next, ok := v.(tailNext); ok {
			cur = next.t
			continue
		}
		cur.done, cur.val = true, v
		return v, nil
	}
}

// RuntimeError is a failure during evaluation (applying a non-function,
// indexing past the end of a list, etc). It is distinct from a type error:
// type-correct programs can still fail at runtime under this toy
// interpreter's deliberately minimal builtin set.
type RuntimeError struct{ Message string }

func (e RuntimeError) Error() string { return e.Message }

func evalStep(e Expr, env *REnv) (Value, error) {
	switch n := e.(type) {
	case *IntLit:
		return VInt(n.Value), nil
	case *BoolLit:
		return VBool(n.Value), nil
	case *Hole:
		return nil, RuntimeError{Message: "cannot evaluate an unfilled hole"}
	case *Ident:
		th, ok := env.lookup(n.Name)
		if !ok {
			return nil, RuntimeError{Message: fmt.Sprintf("unbound identifier %q at runtime", n.Name)}
		}
		return tailNext{t: th}, nil
	case *ListLit:
		elems := make([]*Thunk, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = NewThunk(el, env)
		}
		return VList{Elems: elems}, nil
	case *Lambda:
		return VClosure{Param: n.Param, Body: n.Body, Env: env}, nil
	case *App:
		fnVal, err := Eval(n.Fn, env)
		if err != nil {
			return nil, err
		}
		argThunk := NewThunk(n.Arg, env)
		switch fn := fnVal.(type) {
		case VClosure:
			return tailNext{t: NewThunk(fn.Body, fn.Env.bind(fn.Param, argThunk))}, nil
		case VBuiltin:
			return fn.Fn(argThunk)
		default:
			return nil, RuntimeError{Message: "applied a non-function value"}
		}
	case *BinOp:
		return evalBinOp(n, env)
	case *If:
		condVal, err := Eval(n.Cond, env)
		if err != nil {
			return nil, err
		}
		b, ok := condVal.(VBool)
		if !ok {
			return nil, RuntimeError{Message: "if condition did not evaluate to a boolean"}
		}
		if bool(b) {
			return tailNext{t: NewThunk(n.Then, env)}, nil
		}
		return tailNext{t: NewThunk(n.Else, env)}, nil
	case *Let:
		// A genuinely recursive binding: the thunk for Name closes over an
		// environment that already contains itself.
		var selfEnv *REnv
		valueThunk := NewThunk(n.Value, nil)
		selfEnv = env.bind(n.Name, valueThunk)
		valueThunk.env = selfEnv
		return tailNext{t: NewThunk(n.Body, selfEnv)}, nil
	default:
		return nil, RuntimeError{Message: "unsupported expression node in evaluator"}
	}
}

// Eval forces e in env to WHNF. It is a convenience wrapper around
// NewThunk(e, env).Force for call sites that do not need to retain the
// thunk for sharing.
func Eval(e Expr, env *REnv) (Value, error) {
	return NewThunk(e, env).Force()
}

func evalBinOp(n *BinOp, env *REnv) (Value, error) {
	switch n.Op {
	case "&&":
		l, err := Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(VBool)
		if !ok {
			return nil, RuntimeError{Message: "&& operand is not a boolean"}
		}
		if !bool(lb) {
			return VBool(false), nil
		}
		return evalBoolExpr(n.Right, env)
	case "||":
		l, err := Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(VBool)
		if !ok {
			return nil, RuntimeError{Message: "|| operand is not a boolean"}
		}
		if bool(lb) {
			return VBool(true), nil
		}
		return evalBoolExpr(n.Right, env)
	}

	l, err := Eval(n.Left, env)
	if err != nil {
		return nil, err
	}
	r, err := Eval(n.Right, env)
	if err != nil {
		return nil, err
	}
	li, lok := l.(VInt)
	ri, rok := r.(VInt)
	if !lok || !rok {
		return nil, RuntimeError{Message: fmt.Sprintf("operator %s requires integer operands", n.Op)}
	}
	switch n.Op {
	case "+":
		return li + ri, nil
	case "-":
		return li - ri, nil
	case "*":
		return li * ri, nil
	case "/":
		if ri == 0 {
			return nil, RuntimeError{Message: "division by zero"}
		}
		return li / ri, nil
	case "%":
		if ri == 0 {
			return nil, RuntimeError{Message: "modulo by zero"}
		}
		return li % ri, nil
	case "==":
		return VBool(li == ri), nil
	case "!=":
		return VBool(li != ri), nil
	case "<":
		return VBool(li < ri), nil
	case "<=":
		return VBool(li <= ri), nil
	case ">":
		return VBool(li > ri), nil
	case ">=":
		return VBool(li >= ri), nil
	default:
		return nil, RuntimeError{Message: "unknown operator " + n.Op}
	}
}

// BaseEnv returns the runtime environment seeding the four native list
// primitives. Prelude's foldl/map/filter definitions are parsed and bound
// on top of this by checkbuild.Evaluate (once per sandboxed check) and by
// the repl, once a *REnv chain exists to extend.
func BaseEnv() *REnv {
	var env *REnv
	env = env.bind("emptyList", ValueThunk(VBuiltin{Name: "emptyList", Fn: func(arg *Thunk) (Value, error) {
		v, err := arg.Force()
		if err != nil {
			return nil, err
		}
		lst, ok := v.(VList)
		if !ok {
			return nil, RuntimeError{Message: "emptyList: argument is not a list"}
		}
		return VBool(len(lst.Elems) == 0), nil
	}}))
	env = env.bind("headList", ValueThunk(VBuiltin{Name: "headList", Fn: func(arg *Thunk) (Value, error) {
		v, err := arg.Force()
		if err != nil {
			return nil, err
		}
		lst, ok := v.(VList)
		if !ok || len(lst.Elems) == 0 {
			return nil, RuntimeError{Message: "headList: argument is not a non-empty list"}
		}
		return tailNext{t: lst.Elems[0]}, nil
	}}))
	env = env.bind("tailList", ValueThunk(VBuiltin{Name: "tailList", Fn: func(arg *Thunk) (Value, error) {
		v, err := arg.Force()
		if err != nil {
			return nil, err
		}
		lst, ok := v.(VList)
		if !ok || len(lst.Elems) == 0 {
			return nil, RuntimeError{Message: "tailList: argument is not a non-empty list"}
		}
		return VList{Elems: lst.Elems[1:]}, nil
	}}))
	env = env.bind("consList", ValueThunk(VBuiltin{Name: "consList", Fn: func(head *Thunk) (Value, error) {
		return VBuiltin{Name: "consList applied", Fn: func(tail *Thunk) (Value, error) {
			v, err := tail.Force()
			if err != nil {
				return nil, err
			}
			lst, ok := v.(VList)
			if !ok {
				return nil, RuntimeError{Message: "consList: second argument is not a list"}
			}
			elems := make([]*Thunk, 0, len(lst.Elems)+1)
			elems = append(elems, head)
			elems = append(elems, lst.Elems...)
			return VList{Elems: elems}, nil
		}}, nil
	}}))
	return env
}

func evalBoolExpr(e Expr, env *REnv) (Value, error) {
	v, err := Eval(e, env)
	if err != nil {
		return nil, err
	}
	b, ok := v.(VBool)
	if !ok {
		return nil, RuntimeError{Message: "expected boolean operand"}
	}
	return b, nil
}
