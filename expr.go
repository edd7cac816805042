// expr.go: the expression tree that the whole engine rewrites.
//
// An Expr is a tagged, immutable tree with three variants:
//
//	Sym  an atomic constant: swap, pair, 0, 69
//	Var  a pattern placeholder: A, B, _Rest
//	Fun  an application: swap(pair(A, B)); the functor is itself an Expr
//
// Binary operators are not a separate variant. The parser desugars
// `a + b` into Fun(Sym("+"), a, b), so matching, substitution and the
// application strategies treat operator nodes exactly like any other
// application. The printer reconstructs infix notation (see printer.go).
//
// Every rewrite builds a new tree; nothing mutates an Expr after
// construction. Undo works by holding on to old snapshots.
package noq

// ExprKind discriminates the three Expr variants.
type ExprKind int

const (
	ExprSym ExprKind = iota
	ExprVar
	ExprFun
)

// Expr is one node of an expression tree. Name is set for Sym and Var;
// Head and Args are set for Fun (len(Args) >= 1 for anything the parser
// produces; a bare Sym represents arity 0).
type Expr struct {
	Kind ExprKind
	Name string
	Head *Expr
	Args []*Expr
}

// Sym returns a symbol node.
func Sym(name string) *Expr { return &Expr{Kind: ExprSym, Name: name} }

// Var returns a variable node.
func Var(name string) *Expr { return &Expr{Kind: ExprVar, Name: name} }

// Fun returns an application node.
func Fun(head *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprFun, Head: head, Args: args}
}

// NameExpr classifies a bare name the way the surface syntax does: a
// leading uppercase letter or underscore makes a Variable, anything else
// (lowercase letter or digit) makes a Symbol.
func NameExpr(name string) *Expr {
	if name == "" {
		return Sym(name)
	}
	c := name[0]
	if c == '_' || ('A' <= c && c <= 'Z') {
		return Var(name)
	}
	return Sym(name)
}

// Equal reports structural equality of two expression trees.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ExprSym, ExprVar:
		return a.Name == b.Name
	default:
		if len(a.Args) != len(b.Args) || !Equal(a.Head, b.Head) {
			return false
		}
		for i := range a.Args {
			if !Equal(a.Args[i], b.Args[i]) {
				return false
			}
		}
		return true
	}
}

// HumanName describes the variant for error messages.
func (e *Expr) HumanName() string {
	switch e.Kind {
	case ExprSym:
		return "a symbol"
	case ExprVar:
		return "a variable"
	default:
		return "an application"
	}
}

// Vars appends the names of every Variable occurring in e to the given
// set. Used for the unbound-body-variable check on rule definitions.
func (e *Expr) Vars(into map[string]bool) {
	switch e.Kind {
	case ExprVar:
		into[e.Name] = true
	case ExprFun:
		e.Head.Vars(into)
		for _, a := range e.Args {
			a.Vars(into)
		}
	}
}

// IsGround reports whether e contains no Variable nodes.
func (e *Expr) IsGround() bool {
	switch e.Kind {
	case ExprVar:
		return false
	case ExprFun:
		if !e.Head.IsGround() {
			return false
		}
		for _, a := range e.Args {
			if !a.IsGround() {
				return false
			}
		}
	}
	return true
}
