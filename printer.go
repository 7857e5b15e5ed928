// printer.go — user-facing value formatting and the debug AST printer.
package lox

import (
	"strconv"
	"strings"
)

/* ---------- value formatting ---------- */

// FormatValue renders v the way `print` shows it:
//
//	nil → nil, booleans → true/false, numbers → shortest decimal with no
//	trailing .0 for integer-valued doubles, strings → raw contents,
//	functions → <fn NAME>, natives → <native fn>, classes → their name,
//	instances → NAME instance.
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNumber(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTFun:
		return "<fn " + v.Data.(*Function).Decl.Name.Lexeme + ">"
	case VTNative:
		return "<native fn>"
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).Class.Name + " instance"
	default:
		return "<unknown>"
	}
}

// formatNumber prints integer-valued doubles without a fractional tail and
// everything else with the shortest round-tripping decimal form.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

/* ---------- AST printer ---------- */

// FormatExpr renders an expression as a parenthesized prefix form, grouping
// by operator: `1 + 2 * 3` → `(+ 1 (* 2 3))`. Used by cmd/golox-ast and by
// parser tests to pin down associativity and precedence.
func FormatExpr(e Expr) string {
	switch ex := e.(type) {
	case *Literal:
		if ex.Value == nil {
			return "nil"
		}
		if s, ok := ex.Value.(string); ok {
			return s
		}
		if f, ok := ex.Value.(float64); ok {
			return formatNumber(f)
		}
		if b, ok := ex.Value.(bool); ok {
			return strconv.FormatBool(b)
		}
		return "?"
	case *Grouping:
		return parenthesize("group", ex.Expression)
	case *Unary:
		return parenthesize(ex.Operator.Lexeme, ex.Right)
	case *Binary:
		return parenthesize(ex.Operator.Lexeme, ex.Left, ex.Right)
	case *Logical:
		return parenthesize(ex.Operator.Lexeme, ex.Left, ex.Right)
	case *Variable:
		return ex.Name.Lexeme
	case *Assign:
		return parenthesize("= "+ex.Name.Lexeme, ex.Value)
	case *Call:
		return parenthesize("call", append([]Expr{ex.Callee}, ex.Args...)...)
	case *Get:
		return parenthesize(". "+ex.Name.Lexeme, ex.Object)
	case *Set:
		return parenthesize("= (. "+ex.Name.Lexeme+")", ex.Object, ex.Value)
	case *This:
		return "this"
	case *Super:
		return "(super " + ex.Method.Lexeme + ")"
	default:
		return "?"
	}
}

func parenthesize(name string, exprs ...Expr) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(name)
	for _, e := range exprs {
		b.WriteByte(' ')
		b.WriteString(FormatExpr(e))
	}
	b.WriteByte(')')
	return b.String()
}
