// parser_test.go
package noq

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustExpr(t *testing.T, src string) *Expr {
	t.Helper()
	e, err := ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q) error: %v", src, err)
	}
	return e
}

func mustCommand(t *testing.T, src string) Command {
	t.Helper()
	cmd, err := ParseCommand(src)
	if err != nil {
		t.Fatalf("ParseCommand(%q) error: %v", src, err)
	}
	return cmd
}

func wantExpr(t *testing.T, src string, want *Expr) {
	t.Helper()
	got := mustExpr(t, src)
	if !Equal(got, want) {
		t.Fatalf("ParseExpr(%q):\nwant %s\ngot  %s\ndiff: %s",
			src, FormatExpr(want), FormatExpr(got), cmp.Diff(want, got))
	}
}

func op(name string, lhs, rhs *Expr) *Expr { return Fun(Sym(name), lhs, rhs) }

func Test_Parser_Atoms(t *testing.T) {
	wantExpr(t, "a", Sym("a"))
	wantExpr(t, "A", Var("A"))
	wantExpr(t, "_", Var("_"))
	wantExpr(t, "42", Sym("42"))
	wantExpr(t, "(a)", Sym("a"))
}

func Test_Parser_Applications(t *testing.T) {
	wantExpr(t, "f(a)", Fun(Sym("f"), Sym("a")))
	wantExpr(t, "swap(pair(A, B))", Fun(Sym("swap"), Fun(Sym("pair"), Var("A"), Var("B"))))
	wantExpr(t, "F(a, b, c)", Fun(Var("F"), Sym("a"), Sym("b"), Sym("c")))
	// Argument lists chain; the nested application is the functor.
	wantExpr(t, "f(a)(b)", Fun(Fun(Sym("f"), Sym("a")), Sym("b")))
	// A parenthesized head can be applied too.
	wantExpr(t, "(f)(a)", Fun(Sym("f"), Sym("a")))
}

func Test_Parser_NameBeforeParenIsAlwaysApplication(t *testing.T) {
	// Never "f" next to a parenthesized "(a)": always an application.
	wantExpr(t, "f (a)", Fun(Sym("f"), Sym("a")))
}

func Test_Parser_Precedence(t *testing.T) {
	wantExpr(t, "a + b * c", op("+", Sym("a"), op("*", Sym("b"), Sym("c"))))
	wantExpr(t, "a * b + c", op("+", op("*", Sym("a"), Sym("b")), Sym("c")))
	wantExpr(t, "(a + b) * c", op("*", op("+", Sym("a"), Sym("b")), Sym("c")))
	wantExpr(t, "a / b / c", op("/", op("/", Sym("a"), Sym("b")), Sym("c")))
}

func Test_Parser_Associativity(t *testing.T) {
	// + - * / associate left; ^ associates right.
	wantExpr(t, "a - b - c", op("-", op("-", Sym("a"), Sym("b")), Sym("c")))
	wantExpr(t, "a ^ b ^ c", op("^", Sym("a"), op("^", Sym("b"), Sym("c"))))
	wantExpr(t, "a ^ b * c", op("*", op("^", Sym("a"), Sym("b")), Sym("c")))
}

func Test_Parser_OperatorsDesugarToApplications(t *testing.T) {
	got := mustExpr(t, "a + b")
	if got.Kind != ExprFun || got.Head.Kind != ExprSym || got.Head.Name != "+" {
		t.Fatalf("want Fun(Sym(+), ...), got %s", FormatExpr(got))
	}
}

func Test_Parser_RuleCommand(t *testing.T) {
	cmd := mustCommand(t, "rule swap swap(pair(A, B)) = pair(B, A)")
	if cmd.Kind != CmdDefineRule || cmd.Name != "swap" {
		t.Fatalf("bad command: %+v", cmd)
	}
	if !Equal(cmd.Head, Fun(Sym("swap"), Fun(Sym("pair"), Var("A"), Var("B")))) {
		t.Fatalf("bad head: %s", FormatExpr(cmd.Head))
	}
	if !Equal(cmd.Body, Fun(Sym("pair"), Var("B"), Var("A"))) {
		t.Fatalf("bad body: %s", FormatExpr(cmd.Body))
	}
}

func Test_Parser_ApplyStrategies(t *testing.T) {
	cases := []struct {
		src  string
		want Strategy
	}{
		{"apply swap", First()},
		{"apply all swap", All()},
		{"apply deep swap", Deep()},
		{"apply 0 swap", Nth(0)},
		{"apply 3 swap", Nth(3)},
	}
	for _, c := range cases {
		cmd := mustCommand(t, c.src)
		if cmd.Kind != CmdApply || cmd.Strategy != c.want || cmd.RuleName != "swap" {
			t.Fatalf("%q: got %+v", c.src, cmd)
		}
	}
}

func Test_Parser_ApplyAnonymousRule(t *testing.T) {
	cmd := mustCommand(t, "apply all rule f(X) = g(X)")
	if cmd.Kind != CmdApply || cmd.RuleName != "" {
		t.Fatalf("bad command: %+v", cmd)
	}
	if !Equal(cmd.Head, Fun(Sym("f"), Var("X"))) || !Equal(cmd.Body, Fun(Sym("g"), Var("X"))) {
		t.Fatalf("bad anonymous rule: %s = %s", FormatExpr(cmd.Head), FormatExpr(cmd.Body))
	}
}

func Test_Parser_ApplyReverse(t *testing.T) {
	cmd := mustCommand(t, "apply deep reverse swap")
	if !cmd.Reversed || cmd.Strategy != Deep() || cmd.RuleName != "swap" {
		t.Fatalf("bad command: %+v", cmd)
	}
	// reverse toggles.
	cmd = mustCommand(t, "apply reverse reverse swap")
	if cmd.Reversed {
		t.Fatalf("double reverse should cancel out: %+v", cmd)
	}
}

func Test_Parser_SessionAndTableCommands(t *testing.T) {
	cases := []struct {
		src  string
		kind CmdKind
	}{
		{"shape f(a, b)", CmdShape},
		{"done", CmdDone},
		{"quit", CmdQuit},
		{"undo", CmdUndo},
		{"delete swap", CmdDelete},
		{`load "rules.noq"`, CmdLoad},
		{`save "rules.noq"`, CmdSave},
	}
	for _, c := range cases {
		cmd := mustCommand(t, c.src)
		if cmd.Kind != c.kind {
			t.Fatalf("%q: want kind %v, got %+v", c.src, c.kind, cmd)
		}
	}
}

func Test_Parser_ProgramIsBatch(t *testing.T) {
	// One malformed statement aborts the whole parse.
	src := "rule id f(X) = X\nshape f(\nrule other g(X) = X"
	cmds, err := ParseProgram(src)
	if err == nil {
		t.Fatalf("want parse error, got %d commands", len(cmds))
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("want *ParseError, got %T: %v", err, err)
	}
}

func Test_Parser_ExprErrors(t *testing.T) {
	cases := []struct {
		src     string
		wantMsg string
	}{
		{"f(", "expected an expression"},
		{"f()", "expected an expression"},
		{"f(a,)", "expected an expression"},
		{"f(a", "expected ')'"},
		{"a +", "expected an expression"},
	}
	for _, c := range cases {
		_, err := ParseExpr(c.src)
		if err == nil {
			t.Fatalf("%q: want parse error, got none", c.src)
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("%q: want *ParseError, got %T: %v", c.src, err, err)
		}
		if !strings.Contains(pe.Msg, c.wantMsg) {
			t.Fatalf("%q: want message containing %q, got %q", c.src, c.wantMsg, pe.Msg)
		}
	}
}

func Test_Parser_CommandErrors(t *testing.T) {
	cases := []struct {
		src     string
		wantMsg string
	}{
		{"rule Swap f(X) = X", "expected symbol"},
		{"rule id f(", "expected an expression"},
		{"rule id f(X) X", "expected '='"},
		{"apply", "a rule name or an anonymous rule"},
		{"apply all all", "a rule name or an anonymous rule"},
		{"delete", "expected symbol"},
		{"load rules", "expected string"},
		{"a :: b", "a command"},
		{"shape f(a) done", "end of input"},
	}
	for _, c := range cases {
		_, err := ParseCommand(c.src)
		if err == nil {
			t.Fatalf("%q: want parse error, got none", c.src)
		}
		pe, ok := err.(*ParseError)
		if !ok {
			t.Fatalf("%q: want *ParseError, got %T: %v", c.src, err, err)
		}
		if !strings.Contains(pe.Msg, c.wantMsg) {
			t.Fatalf("%q: want message containing %q, got %q", c.src, c.wantMsg, pe.Msg)
		}
	}
}

func Test_Parser_ErrorPosition(t *testing.T) {
	_, err := ParseCommand("rule id f(X = X")
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("want *ParseError, got %T: %v", err, err)
	}
	// The '=' at column 12 arrives where ')' or ',' was legal.
	if pe.Line != 1 || pe.Col != 12 {
		t.Fatalf("want error at 1:12, got %d:%d", pe.Line, pe.Col)
	}
}

func Test_Parser_RoundTrip(t *testing.T) {
	// Reparsing the canonical rendering yields the same tree.
	sources := []string{
		"swap(pair(f(a), g(b)))",
		"a + b * c ^ d",
		"(a + b) * (c - d)",
		"a - b - c",
		"a ^ b ^ c",
		"f(a)(b)(C)",
		"add(mul(A, B), 0)",
	}
	for _, src := range sources {
		first := mustExpr(t, src)
		second := mustExpr(t, FormatExpr(first))
		if !Equal(first, second) {
			t.Fatalf("%q: round-trip mismatch: %s vs %s",
				src, FormatExpr(first), FormatExpr(second))
		}
	}
}
