// match.go: first-order structural matching and substitution.
//
// Only the pattern side contains variables; the subject is treated as
// ground. Matching is top-down with immediate binding consistency checks,
// so it is deterministic and needs no backtracking.
package noq

// Bindings maps variable names to the ground expressions they matched.
type Bindings map[string]*Expr

// Match attempts to match pattern against subject and returns the
// variable bindings on success.
func Match(pattern, subject *Expr) (Bindings, bool) {
	b := Bindings{}
	if matchInto(pattern, subject, b) {
		return b, true
	}
	return nil, false
}

func matchInto(pattern, subject *Expr, b Bindings) bool {
	switch pattern.Kind {
	case ExprVar:
		// "_" matches anything and binds nothing.
		if pattern.Name == "_" {
			return true
		}
		if bound, ok := b[pattern.Name]; ok {
			return Equal(bound, subject)
		}
		b[pattern.Name] = subject
		return true

	case ExprSym:
		return subject.Kind == ExprSym && pattern.Name == subject.Name

	default: // ExprFun
		if subject.Kind != ExprFun || len(pattern.Args) != len(subject.Args) {
			return false
		}
		if !matchInto(pattern.Head, subject.Head, b) {
			return false
		}
		for i := range pattern.Args {
			if !matchInto(pattern.Args[i], subject.Args[i], b) {
				return false
			}
		}
		return true
	}
}

// Substitute replaces every Variable in body with its binding, building a
// new tree. Variables with no binding are kept as-is; rule validation
// (rule.go) guarantees that cannot happen for rules that came through the
// front door.
func Substitute(body *Expr, b Bindings) *Expr {
	switch body.Kind {
	case ExprSym:
		return body
	case ExprVar:
		if bound, ok := b[body.Name]; ok {
			return bound
		}
		return body
	default:
		args := make([]*Expr, len(body.Args))
		for i, a := range body.Args {
			args[i] = Substitute(a, b)
		}
		return Fun(Substitute(body.Head, b), args...)
	}
}
