// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kanso-lang/repairgo/internal/langs/mini"
)

const PROMPT = ">> "

// Start reads mini-language expressions from in, one per line, evaluates
// each against an environment seeded with BaseEnv plus Prelude's
// foldl/map/filter, and writes the result (or any parse/runtime error) to
// out.
func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	env := preludeEnv()

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		expr, err := mini.ParseExpr(line)
		if err != nil {
			fmt.Fprintf(out, "parse error: %s\n", err)
			continue
		}

		val, err := mini.Eval(expr, env)
		if err != nil {
			fmt.Fprintf(out, "runtime error: %s\n", err)
			continue
		}

		fmt.Fprintf(out, "%s\n", formatValue(val))
	}
}

// preludeEnv binds the native list primitives (mini.BaseEnv) plus
// foldl/map/filter (mini.Prelude), the same two-layer, letrec-style
// environment internal/checkbuild.Evaluate builds for a sandboxed check:
// each combinator's thunk is bound into the chain first and only then
// pointed at that same chain, so its self-reference (foldl calling foldl)
// resolves.
func preludeEnv() *mini.REnv {
	env := mini.BaseEnv()
	for name, src := range mini.Prelude() {
		expr, err := mini.ParseExpr(src)
		if err != nil {
			continue
		}
		let, ok := expr.(*mini.Let)
		if !ok {
			continue
		}
		th := mini.NewThunk(let.Value, nil)
		env = env.Bind(name, th)
		th.SetEnv(env)
	}
	return env
}

func formatValue(v mini.Value) string {
	switch x := v.(type) {
	case mini.VInt:
		return fmt.Sprintf("%d", int64(x))
	case mini.VBool:
		return fmt.Sprintf("%t", bool(x))
	case mini.VList:
		parts := make([]string, len(x.Elems))
		for i, t := range x.Elems {
			ev, err := t.Force()
			if err != nil {
				parts[i] = "<error>"
				continue
			}
			parts[i] = formatValue(ev)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case mini.VClosure:
		return "<closure>"
	case mini.VBuiltin:
		return "<builtin " + x.Name + ">"
	default:
		return "<value>"
	}
}
