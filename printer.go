// printer.go: canonical textual rendering of expressions and rule tables.
//
// The output is the round-trip guarantee of the system: reparsing what
// the printer emits yields a structurally equal tree. Binary operator
// applications are rendered infix; a child operator whose precedence does
// not exceed its parent's is parenthesized, which keeps associativity
// explicit (`a - b - c` prints as `(a - b) - c`, `a^b^c` as `a^(b^c)`).
// Additive operators are spaced, tighter ones are not.
package noq

import (
	"fmt"
	"strings"
)

// opPrec gives the printing precedence for operator symbols. Everything
// absent binds tightest (atoms, applications).
var opPrec = map[string]int{
	"+": 0, "-": 0,
	"*": 1, "/": 1,
	"^": 2,
}

// FormatExpr renders e in the surface syntax.
func FormatExpr(e *Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func (e *Expr) String() string { return FormatExpr(e) }

// binOp reports whether e is an infix-renderable operator application.
func binOp(e *Expr) (prec int, ok bool) {
	if e.Kind != ExprFun || e.Head.Kind != ExprSym || len(e.Args) != 2 {
		return 0, false
	}
	prec, ok = opPrec[e.Head.Name]
	return prec, ok
}

func writeExpr(b *strings.Builder, e *Expr) {
	switch e.Kind {
	case ExprSym, ExprVar:
		b.WriteString(e.Name)

	default:
		if prec, ok := binOp(e); ok {
			writeOperand(b, e.Args[0], prec)
			if prec == 0 {
				fmt.Fprintf(b, " %s ", e.Head.Name)
			} else {
				b.WriteString(e.Head.Name)
			}
			writeOperand(b, e.Args[1], prec)
			return
		}
		switch e.Head.Kind {
		case ExprSym, ExprVar:
			b.WriteString(e.Head.Name)
		default:
			b.WriteByte('(')
			writeExpr(b, e.Head)
			b.WriteByte(')')
		}
		b.WriteByte('(')
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, arg)
		}
		b.WriteByte(')')
	}
}

func writeOperand(b *strings.Builder, e *Expr, parentPrec int) {
	if prec, ok := binOp(e); ok && prec <= parentPrec {
		b.WriteByte('(')
		writeExpr(b, e)
		b.WriteByte(')')
		return
	}
	writeExpr(b, e)
}

// FormatRule renders a rule as a `rule` declaration; anonymous rules
// render without a name.
func FormatRule(r Rule) string {
	if r.Name == "" {
		return fmt.Sprintf("rule %s = %s", FormatExpr(r.Head), FormatExpr(r.Body))
	}
	return fmt.Sprintf("rule %s %s = %s", r.Name, FormatExpr(r.Head), FormatExpr(r.Body))
}

// FormatRules renders a whole table in its persisted `.noq` form: one
// declaration per line, sorted by name so saves are deterministic.
func FormatRules(t *RuleTable) string {
	var b strings.Builder
	for _, name := range t.Names() {
		r, _ := t.Get(name)
		b.WriteString(FormatRule(r))
		b.WriteByte('\n')
	}
	return b.String()
}
