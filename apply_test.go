// apply_test.go
package noq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var swapRule = Rule{
	Name: "swap",
	Head: Fun(Sym("swap"), Fun(Sym("pair"), Var("A"), Var("B"))),
	Body: Fun(Sym("pair"), Var("B"), Var("A")),
}

func applyStr(t *testing.T, e *Engine, target string, rule Rule, s Strategy) (*Expr, int, error) {
	t.Helper()
	return e.Apply(mustExpr(t, target), rule, s)
}

func wantApply(t *testing.T, e *Engine, target string, rule Rule, s Strategy, want string, wantN int) {
	t.Helper()
	got, n, err := applyStr(t, e, target, rule, s)
	if err != nil {
		t.Fatalf("apply %v %s to %q: %v", s, ruleLabel(rule), target, err)
	}
	if wantExpr := mustExpr(t, want); !Equal(got, wantExpr) {
		t.Fatalf("apply %v %s to %q:\nwant %s\ngot  %s\ndiff: %s",
			s, ruleLabel(rule), target, want, FormatExpr(got), cmp.Diff(wantExpr, got))
	}
	if n != wantN {
		t.Fatalf("apply %v %s to %q: want %d occurrence(s), got %d", s, ruleLabel(rule), target, wantN, n)
	}
}

func Test_Apply_FirstRewritesLeftmostPreorder(t *testing.T) {
	e := &Engine{}
	wantApply(t, e, "swap(pair(a, b))", swapRule, First(), "pair(b, a)", 1)
	// The outermost occurrence is first in pre-order.
	wantApply(t, e, "swap(pair(swap(pair(x, y)), z))", swapRule, First(),
		"pair(z, swap(pair(x, y)))", 1)
	// Among siblings the left argument wins.
	wantApply(t, e, "g(swap(pair(a, b)), swap(pair(c, d)))", swapRule, First(),
		"g(pair(b, a), swap(pair(c, d)))", 1)
}

func Test_Apply_FirstIsDeterministic(t *testing.T) {
	e := &Engine{}
	target := "g(swap(pair(a, b)), swap(pair(c, d)))"
	first, _, err := applyStr(t, e, target, swapRule, First())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, _, err := applyStr(t, e, target, swapRule, First())
		if err != nil {
			t.Fatal(err)
		}
		if !Equal(first, again) {
			t.Fatalf("run %d: %s != %s", i, FormatExpr(again), FormatExpr(first))
		}
	}
}

func Test_Apply_All(t *testing.T) {
	e := &Engine{}
	wantApply(t, e, "swap(pair(f(a), g(b)))", swapRule, All(), "pair(g(b), f(a))", 1)
	wantApply(t, e, "g(swap(pair(a, b)), swap(pair(c, d)))", swapRule, All(),
		"g(pair(b, a), pair(d, c))", 2)
}

func Test_Apply_All_IndependentBindings(t *testing.T) {
	e := &Engine{}
	rule := Rule{Head: mustExpr(t, "f(X)"), Body: mustExpr(t, "g(X)")}
	// Each occurrence binds X on its own.
	wantApply(t, e, "pair(f(a), f(b))", rule, All(), "pair(g(a), g(b))", 2)
}

func Test_Apply_All_OuterMatchShadowsInner(t *testing.T) {
	e := &Engine{}
	// Both the whole tree and the inner swap match; the outer occurrence
	// wins and its replacement is not revisited.
	wantApply(t, e, "swap(pair(swap(pair(x, y)), z))", swapRule, All(),
		"pair(z, swap(pair(x, y)))", 1)
}

func Test_Apply_All_DoesNotRematchReplacement(t *testing.T) {
	e := &Engine{}
	// f(X) = f(f(X)) would loop forever if replacements were re-matched.
	rule := Rule{Head: mustExpr(t, "f(X)"), Body: mustExpr(t, "f(f(X))")}
	wantApply(t, e, "pair(f(a), f(b))", rule, All(), "pair(f(f(a)), f(f(b)))", 2)
}

func Test_Apply_All_SecondPassOnlySeesNewMatches(t *testing.T) {
	e := &Engine{}
	// Rule whose head cannot match its own body: f(X) = g(X).
	rule := Rule{Head: mustExpr(t, "f(X)"), Body: mustExpr(t, "g(X)")}
	out, _, err := applyStr(t, e, "pair(f(a), f(f(b)))", rule, All())
	if err != nil {
		t.Fatal(err)
	}
	// First pass: outer occurrences only.
	if want := mustExpr(t, "pair(g(a), g(f(b)))"); !Equal(out, want) {
		t.Fatalf("first pass: want %s, got %s", FormatExpr(want), FormatExpr(out))
	}
	// Second pass only finds the f(b) uncovered by the first rewrite.
	out2, n, err := e.Apply(out, rule, All())
	if err != nil {
		t.Fatal(err)
	}
	if want := mustExpr(t, "pair(g(a), g(g(b)))"); !Equal(out2, want) || n != 1 {
		t.Fatalf("second pass: want %s with 1 occurrence, got %s with %d",
			FormatExpr(want), FormatExpr(out2), n)
	}
}

func Test_Apply_Nth(t *testing.T) {
	e := &Engine{}
	target := "swap(pair(swap(pair(x, y)), z))"
	// Occurrence 0 is the outermost in pre-order.
	wantApply(t, e, target, swapRule, Nth(0), "pair(z, swap(pair(x, y)))", 1)
	// Occurrence 1 is the inner one; the outer stays untouched.
	wantApply(t, e, target, swapRule, Nth(1), "swap(pair(pair(y, x), z))", 1)
}

func Test_Apply_NthOutOfRange(t *testing.T) {
	e := &Engine{}
	_, _, err := applyStr(t, e, "swap(pair(a, b))", swapRule, Nth(1))
	if !IsKind(err, ErrNoMatchAtIndex) {
		t.Fatalf("want ErrNoMatchAtIndex, got %v", err)
	}
}

func Test_Apply_NoMatch(t *testing.T) {
	e := &Engine{}
	for _, s := range []Strategy{First(), All(), Deep()} {
		_, _, err := applyStr(t, e, "f(a, b)", swapRule, s)
		if !IsKind(err, ErrNoMatch) {
			t.Fatalf("strategy %v: want ErrNoMatch, got %v", s, err)
		}
	}
}

func Test_Apply_Deep(t *testing.T) {
	e := &Engine{}
	// Unfold pairs until no swap is left anywhere.
	wantApply(t, e, "swap(pair(swap(pair(x, y)), z))", swapRule, Deep(),
		"pair(z, pair(y, x))", 2)

	// Peano addition: add(succ(N), M) = add(N, succ(M)), then the base case.
	step := Rule{Head: mustExpr(t, "add(succ(N), M)"), Body: mustExpr(t, "add(N, succ(M))")}
	wantApply(t, e, "add(succ(succ(zero)), zero)", step, Deep(),
		"add(zero, succ(succ(zero)))", 2)
}

func Test_Apply_DeepLimit(t *testing.T) {
	e := &Engine{DeepLimit: 10}
	grow := Rule{Head: mustExpr(t, "f(X)"), Body: mustExpr(t, "f(f(X))")}
	_, _, err := applyStr(t, e, "f(a)", grow, Deep())
	if !IsKind(err, ErrDeepApplyLimit) {
		t.Fatalf("want ErrDeepApplyLimit, got %v", err)
	}
}

func Test_Apply_DeepStopsExactlyAtFixpoint(t *testing.T) {
	// A chain shorter than the limit terminates normally.
	e := &Engine{DeepLimit: 10}
	shrink := Rule{Head: mustExpr(t, "f(X)"), Body: mustExpr(t, "X")}
	wantApply(t, e, "f(f(f(a)))", shrink, Deep(), "a", 3)
}

func Test_Apply_PureFunction(t *testing.T) {
	e := &Engine{}
	target := mustExpr(t, "swap(pair(a, b))")
	snapshot := mustExpr(t, "swap(pair(a, b))")
	if _, _, err := e.Apply(target, swapRule, All()); err != nil {
		t.Fatal(err)
	}
	if !Equal(target, snapshot) {
		t.Fatalf("apply mutated its input: %s", FormatExpr(target))
	}
}

func Test_Apply_AnonymousAndNamedRulesAgree(t *testing.T) {
	e := &Engine{}
	anon := Rule{Head: swapRule.Head, Body: swapRule.Body}
	target := "swap(pair(swap(pair(x, y)), z))"
	a, an, aerr := applyStr(t, e, target, swapRule, Nth(1))
	b, bn, berr := applyStr(t, e, target, anon, Nth(1))
	if aerr != nil || berr != nil {
		t.Fatalf("errors: %v, %v", aerr, berr)
	}
	if !Equal(a, b) || an != bn {
		t.Fatalf("named and anonymous rules disagree: %s vs %s", FormatExpr(a), FormatExpr(b))
	}
}
