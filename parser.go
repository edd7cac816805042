// parser.go — recursive-descent parser for noq expressions and commands.
//
// OVERVIEW
// --------
// The parser consumes the token stream produced by lexer.go and builds
// Expr trees (expr.go) and Command values. The expression grammar, from
// loosest to tightest binding:
//
//	expr    = term   { ('+' | '-') term }          left-assoc
//	term    = factor { ('*' | '/') factor }        left-assoc
//	factor  = primary [ '^' factor ]               right-assoc
//	primary = '(' expr ')' calls
//	        | name calls
//	        | number calls
//	calls   = { '(' expr { ',' expr } ')' }
//
// A name followed immediately by '(' is always an application head, never
// a name next to a parenthesized expression; argument lists chain, so
// `f(x)(y)` is Fun(Fun(f, x), y). Binary operators desugar into
// applications of the operator symbol: `a + b` is Fun(Sym("+"), a, b).
//
// Top-level statements:
//
//	rule <name> <expr> = <expr>
//	shape <expr>
//	apply [all | deep | <number>] [reverse] (<name> | rule <expr> = <expr>)
//	done | quit | undo
//	delete <name>
//	load <string> | save <string>
//
// Parsing is all-or-nothing: ParseProgram lexes and parses the entire
// source before anything executes, and the first grammar violation aborts
// the parse with *ParseError (no recovery). Semantic checks (duplicate
// rule names, unbound body variables) are not the parser's business; they
// happen when a Command executes (context.go, rule.go).
package noq

import (
	"fmt"
	"strconv"
)

// CmdKind discriminates top-level commands.
type CmdKind int

const (
	CmdDefineRule CmdKind = iota
	CmdShape
	CmdApply
	CmdDone
	CmdQuit
	CmdUndo
	CmdDelete
	CmdLoad
	CmdSave
)

// Command is one parsed top-level statement. Line/Col point at the
// statement's keyword so runtime errors can be rendered against source.
type Command struct {
	Kind CmdKind
	Line int
	Col  int

	Name       string   // DefineRule, Delete
	Head, Body *Expr    // DefineRule; Apply with an anonymous rule
	Expr       *Expr    // Shape
	Strategy   Strategy // Apply
	RuleName   string   // Apply by name; empty means anonymous
	Reversed   bool     // Apply
	Path       string   // Load, Save
}

// ParseProgram parses a whole source into its command sequence.
func ParseProgram(src string) ([]Command, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	var cmds []Command
	for p.peek().Type != EOF {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// ParseCommand parses exactly one command and requires nothing to follow.
// This is the REPL entry point.
func ParseCommand(src string) (Command, error) {
	p, err := newParser(src)
	if err != nil {
		return Command{}, err
	}
	cmd, err := p.parseCommand()
	if err != nil {
		return Command{}, err
	}
	if _, err := p.expect(EOF); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// ParseExpr parses a single expression and requires nothing to follow.
func ParseExpr(src string) (*Expr, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(EOF); err != nil {
		return nil, err
	}
	return e, nil
}

//// END_OF_PUBLIC

type parser struct {
	toks []Token
	i    int
}

func newParser(src string) (*parser, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.i]
}

func (p *parser) next() Token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(tt TokenType) (Token, error) {
	t := p.peek()
	if t.Type != tt {
		return t, p.errExpected(t, tt.String())
	}
	return p.next(), nil
}

func (p *parser) errExpected(got Token, want string) error {
	found := got.Type.String()
	if got.Type == SYMBOL || got.Type == VARIABLE || got.Type == NUMBER {
		found = fmt.Sprintf("%s '%s'", found, got.Lexeme)
	}
	return &ParseError{
		Line: got.Line,
		Col:  got.Col,
		Msg:  fmt.Sprintf("expected %s but got %s", want, found),
	}
}

// ─────────────────────────────── statements ──────────────────────────────

func (p *parser) parseCommand() (Command, error) {
	t := p.next()
	cmd := Command{Line: t.Line, Col: t.Col}
	switch t.Type {
	case RULE:
		name, err := p.expect(SYMBOL)
		if err != nil {
			return cmd, err
		}
		head, body, err := p.parseRuleBody()
		if err != nil {
			return cmd, err
		}
		cmd.Kind, cmd.Name, cmd.Head, cmd.Body = CmdDefineRule, name.Lexeme, head, body
		return cmd, nil

	case SHAPE:
		e, err := p.parseExpr()
		if err != nil {
			return cmd, err
		}
		cmd.Kind, cmd.Expr = CmdShape, e
		return cmd, nil

	case APPLY:
		return p.parseApply(cmd)

	case DONE:
		cmd.Kind = CmdDone
		return cmd, nil
	case QUIT:
		cmd.Kind = CmdQuit
		return cmd, nil
	case UNDO:
		cmd.Kind = CmdUndo
		return cmd, nil

	case DELETE:
		name, err := p.expect(SYMBOL)
		if err != nil {
			return cmd, err
		}
		cmd.Kind, cmd.Name = CmdDelete, name.Lexeme
		return cmd, nil

	case LOAD, SAVE:
		path, err := p.expect(STRING)
		if err != nil {
			return cmd, err
		}
		if t.Type == LOAD {
			cmd.Kind = CmdLoad
		} else {
			cmd.Kind = CmdSave
		}
		cmd.Path = path.Lexeme
		return cmd, nil

	default:
		return cmd, p.errExpected(t, "a command")
	}
}

// parseApply parses everything after the `apply` keyword: an optional
// strategy, any number of `reverse` modifiers (each one toggles), and
// either a rule name or an inline anonymous rule.
func (p *parser) parseApply(cmd Command) (Command, error) {
	cmd.Kind = CmdApply
	cmd.Strategy = First()

	switch p.peek().Type {
	case ALL:
		p.next()
		cmd.Strategy = All()
	case DEEP:
		p.next()
		cmd.Strategy = Deep()
	case NUMBER:
		t := p.next()
		n, err := strconv.Atoi(t.Lexeme)
		if err != nil {
			return cmd, p.errExpected(t, "an occurrence index")
		}
		cmd.Strategy = Nth(n)
	}

	for p.match(REVERSE) {
		cmd.Reversed = !cmd.Reversed
	}

	switch p.peek().Type {
	case SYMBOL:
		cmd.RuleName = p.next().Lexeme
		return cmd, nil
	case RULE:
		p.next()
		head, body, err := p.parseRuleBody()
		if err != nil {
			return cmd, err
		}
		cmd.Head, cmd.Body = head, body
		return cmd, nil
	default:
		return cmd, p.errExpected(p.peek(), "a rule name or an anonymous rule")
	}
}

// parseRuleBody parses `<head> = <body>` (after `rule` and any name).
func (p *parser) parseRuleBody() (head, body *Expr, err error) {
	head, err = p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err = p.expect(EQUALS); err != nil {
		return nil, nil, err
	}
	body, err = p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	return head, body, nil
}

// ─────────────────────────────── expressions ─────────────────────────────

type opInfo struct {
	name       string
	prec       int
	rightAssoc bool
}

// binaryOps maps operator tokens to their symbol name and precedence.
// Precedence low→high: additive < multiplicative < power.
var binaryOps = map[TokenType]opInfo{
	PLUS:  {"+", 0, false},
	DASH:  {"-", 0, false},
	STAR:  {"*", 1, false},
	SLASH: {"/", 1, false},
	CARET: {"^", 2, true},
}

func (p *parser) parseExpr() (*Expr, error) {
	return p.parseBinary(0)
}

// parseBinary implements precedence climbing. Left-associative operators
// recurse one level tighter on the right; the right-associative '^'
// recurses at its own level.
func (p *parser) parseBinary(minPrec int) (*Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOps[p.peek().Type]
		if !ok || op.prec < minPrec {
			return lhs, nil
		}
		p.next()
		rhsPrec := op.prec + 1
		if op.rightAssoc {
			rhsPrec = op.prec
		}
		rhs, err := p.parseBinary(rhsPrec)
		if err != nil {
			return nil, err
		}
		lhs = Fun(Sym(op.name), lhs, rhs)
	}
}

// parsePrimary parses a parenthesized expression, a bare name, or a
// number, followed by any chain of argument lists.
func (p *parser) parsePrimary() (*Expr, error) {
	var head *Expr
	t := p.peek()
	switch t.Type {
	case LPAREN:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		head = inner
	case SYMBOL, VARIABLE:
		p.next()
		head = NameExpr(t.Lexeme)
	case NUMBER:
		p.next()
		head = Sym(t.Lexeme)
	default:
		return nil, p.errExpected(t, "an expression")
	}

	for p.peek().Type == LPAREN {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		head = Fun(head, args...)
	}
	return head, nil
}

// parseArgs parses one argument list: '(' expr { ',' expr } ')'. Empty
// argument lists are not in the grammar; a bare symbol is arity 0.
func (p *parser) parseArgs() ([]*Expr, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	args := []*Expr{first}
	for p.match(COMMA) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}
