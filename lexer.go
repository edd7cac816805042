// lexer.go: scans `.noq` source text into a token stream.
//
// Token classes
// -------------
//   - SYMBOL:   names starting with a lowercase letter (foo, swap_1)
//   - VARIABLE: names starting with an uppercase letter or '_' (A, _Rest)
//   - NUMBER:   a run of decimal digits (parsed as an atomic constant)
//   - STRING:   a double-quoted path literal, used by `load` and `save`
//   - operators + - * / ^ = ::
//   - punctuation ( ) ,
//   - keywords rule shape apply done quit undo delete load save all deep
//     reverse
//
// '#' starts a comment that runs to the end of the line; comments and
// whitespace are skipped, never emitted. Scanning a character outside
// every class fails with *LexError carrying the 1-based line and 0-based
// column (errors.go renders columns 1-based).
//
// The scanner is byte-oriented: the surface syntax is ASCII, and any
// non-ASCII byte is a lex error by construction.
package noq

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Names and literals
	SYMBOL
	VARIABLE
	NUMBER
	STRING

	// Operators
	PLUS        // "+"
	DASH        // "-"
	STAR        // "*"
	SLASH       // "/"
	CARET       // "^"
	EQUALS      // "="
	DOUBLECOLON // "::"

	// Punctuation
	LPAREN // "("
	RPAREN // ")"
	COMMA  // ","

	// Keywords
	RULE
	SHAPE
	APPLY
	DONE
	QUIT
	UNDO
	DELETE
	LOAD
	SAVE
	ALL
	DEEP
	REVERSE
)

// tokenNames gives a human-readable name per token type for diagnostics.
var tokenNames = map[TokenType]string{
	EOF:         "end of input",
	SYMBOL:      "symbol",
	VARIABLE:    "variable",
	NUMBER:      "number",
	STRING:      "string",
	PLUS:        "'+'",
	DASH:        "'-'",
	STAR:        "'*'",
	SLASH:       "'/'",
	CARET:       "'^'",
	EQUALS:      "'='",
	DOUBLECOLON: "'::'",
	LPAREN:      "'('",
	RPAREN:      "')'",
	COMMA:       "','",
	RULE:        "keyword 'rule'",
	SHAPE:       "keyword 'shape'",
	APPLY:       "keyword 'apply'",
	DONE:        "keyword 'done'",
	QUIT:        "keyword 'quit'",
	UNDO:        "keyword 'undo'",
	DELETE:      "keyword 'delete'",
	LOAD:        "keyword 'load'",
	SAVE:        "keyword 'save'",
	ALL:         "keyword 'all'",
	DEEP:        "keyword 'deep'",
	REVERSE:     "keyword 'reverse'",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(tt))
}

// Token is a lexical token.
type Token struct {
	Type   TokenType
	Lexeme string // raw text; for STRING, the decoded path
	Line   int    // 1-based
	Col    int    // 0-based column of the first character
}

var keywords = map[string]TokenType{
	"rule":    RULE,
	"shape":   SHAPE,
	"apply":   APPLY,
	"done":    DONE,
	"quit":    QUIT,
	"undo":    UNDO,
	"delete":  DELETE,
	"load":    LOAD,
	"save":    SAVE,
	"all":     ALL,
	"deep":    DEEP,
	"reverse": REVERSE,
}

// Lexer scans a noq source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// position of the current token's first character
	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Scan tokenizes the whole source. The returned slice always ends with an
// EOF token. The first offending character fails the scan with *LexError.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		l.skipBlanks()
		l.start = l.cur
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		ch, ok := l.advance()
		if !ok {
			l.addToken(EOF)
			return l.tokens, nil
		}
		switch {
		case ch == '(':
			l.addToken(LPAREN)
		case ch == ')':
			l.addToken(RPAREN)
		case ch == ',':
			l.addToken(COMMA)
		case ch == '+':
			l.addToken(PLUS)
		case ch == '-':
			l.addToken(DASH)
		case ch == '*':
			l.addToken(STAR)
		case ch == '/':
			l.addToken(SLASH)
		case ch == '^':
			l.addToken(CARET)
		case ch == '=':
			l.addToken(EQUALS)
		case ch == ':':
			if c, ok := l.peek(); ok && c == ':' {
				l.advance()
				l.addToken(DOUBLECOLON)
			} else {
				return nil, l.errAt(l.tokStartLine, l.tokStartCol, "unexpected character ':' (did you mean '::'?)")
			}
		case ch == '"':
			if err := l.scanString(); err != nil {
				return nil, err
			}
		case isDigit(ch):
			l.scanNumber()
		case isNameStart(ch):
			l.scanName()
		default:
			return nil, l.errAt(l.tokStartLine, l.tokStartCol, fmt.Sprintf("unexpected character %q", ch))
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType) {
	l.addTokenLexeme(tt, l.src[l.start:l.cur])
}

func (l *Lexer) addTokenLexeme(tt TokenType, lexeme string) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: lexeme,
		Line:   l.tokStartLine,
		Col:    l.tokStartCol,
	})
	l.start = l.cur
}

// skipBlanks consumes whitespace and '#' line comments.
func (l *Lexer) skipBlanks() {
	for {
		ch, ok := l.peek()
		if !ok {
			return
		}
		switch ch {
		case ' ', '\t', '\r', '\n':
			l.advance()
		case '#':
			for {
				c, ok := l.peek()
				if !ok || c == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// scanName consumes a SYMBOL, VARIABLE or keyword. The first character has
// already been consumed.
func (l *Lexer) scanName() {
	for {
		c, ok := l.peek()
		if !ok || !isNameChar(c) {
			break
		}
		l.advance()
	}
	word := l.src[l.start:l.cur]
	if kw, ok := keywords[word]; ok {
		l.addToken(kw)
		return
	}
	c := word[0]
	if c == '_' || ('A' <= c && c <= 'Z') {
		l.addToken(VARIABLE)
	} else {
		l.addToken(SYMBOL)
	}
}

// scanNumber consumes a run of digits. A digit run followed by name
// characters continues as a name (`2x` is one SYMBOL, not NUMBER SYMBOL).
func (l *Lexer) scanNumber() {
	for {
		c, ok := l.peek()
		if !ok {
			break
		}
		if isNameChar(c) && !isDigit(c) {
			l.scanName()
			return
		}
		if !isDigit(c) {
			break
		}
		l.advance()
	}
	l.addToken(NUMBER)
}

// scanString consumes a double-quoted path literal. The opening quote has
// been consumed. No escapes: paths are taken verbatim up to the closing
// quote, and a newline or EOF inside the literal is an error.
func (l *Lexer) scanString() error {
	for {
		c, ok := l.peek()
		if !ok || c == '\n' {
			return l.errAt(l.tokStartLine, l.tokStartCol, "unterminated string")
		}
		l.advance()
		if c == '"' {
			break
		}
	}
	l.addTokenLexeme(STRING, l.src[l.start+1:l.cur-1])
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNameStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || isDigit(b)
}

func isNameChar(b byte) bool { return isNameStart(b) }

func (l *Lexer) errAt(line, col int, msg string) error {
	return &LexError{Line: line, Col: col, Msg: msg}
}
