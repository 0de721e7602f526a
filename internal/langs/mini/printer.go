package mini

import (
	"strconv"
	"strings"
)

// Show renders e to canonical mini-language text. Two structurally equal
// expressions always render identically; this is what the oracle's
// showUnsafe/canonical-text contract requires so candidate dedup and
// memoization keys are stable.
func Show(e Expr) string {
	var b strings.Builder
	show(&b, e, 0)
	return b.String()
}

// precedence levels, matching parser.go's binaryPrecedence plus two extra
// levels for application and atoms, used to decide when to parenthesize.
func precOf(e Expr) int {
	switch n := e.(type) {
	case *BinOp:
		return binPrec(n.Op)
	case *App:
		return 7
	case *Let, *If, *Lambda:
		return 0
	default:
		return 8
	}
}

func binPrec(op string) int {
	switch op {
	case "||":
		return 1
	case "&&":
		return 2
	case "==", "!=":
		return 3
	case "<", "<=", ">", ">=":
		return 4
	case "+", "-":
		return 5
	case "*", "/", "%":
		return 6
	default:
		return 6
	}
}

func show(b *strings.Builder, e Expr, minPrec int) {
	prec := precOf(e)
	needParen := prec < minPrec
	if needParen {
		b.WriteByte('(')
	}
	switch n := e.(type) {
	case *IntLit:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *BoolLit:
		if n.Value {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case *Ident:
		b.WriteString(n.Name)
	case *Hole:
		b.WriteByte('?')
	case *ListLit:
		b.WriteByte('[')
		for i, el := range n.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			show(b, el, 1)
		}
		b.WriteByte(']')
	case *Lambda:
		b.WriteString("fn ")
		b.WriteString(n.Param)
		b.WriteString(" -> ")
		show(b, n.Body, 0)
	case *App:
		show(b, n.Fn, 7)
		b.WriteByte(' ')
		show(b, n.Arg, 8)
	case *BinOp:
		p := binPrec(n.Op)
		show(b, n.Left, p)
		b.WriteByte(' ')
		b.WriteString(n.Op)
		b.WriteByte(' ')
		show(b, n.Right, p+1)
	case *If:
		b.WriteString("if ")
		show(b, n.Cond, 0)
		b.WriteString(" then ")
		show(b, n.Then, 0)
		b.WriteString(" else ")
		show(b, n.Else, 0)
	case *Let:
		b.WriteString("let ")
		b.WriteString(n.Name)
		b.WriteString(" = ")
		show(b, n.Value, 0)
		b.WriteString(" in ")
		show(b, n.Body, 0)
	}
	if needParen {
		b.WriteByte(')')
	}
}
