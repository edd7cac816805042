// errors.go: the typed error taxonomy and caret-snippet rendering.
//
// Three error families cross the library boundary:
//
//   - *LexError     a character matched no token class (lexer.go)
//   - *ParseError   a grammar violation (parser.go)
//   - *EvalError    everything that can go wrong while executing an
//     otherwise well-formed command: duplicate or missing rules, unbound
//     body variables, strategies that find nothing to rewrite, the deep
//     iteration cap, undo with no history, shaping state misuse, and I/O
//     failures from load/save. The Kind field discriminates.
//
// Lex and parse errors carry 0-based columns (matching the lexer);
// WrapErrorWithSource renders them 1-based. Eval errors carry the
// position of the command that failed, filled in by Context.Run.
//
// WrapErrorWithSource turns any of the three into a readable snippet with
// a caret pointing at the offending column:
//
//	PARSE ERROR at 3:12: expected ')' but got ','
//
//	   2 | rule comm A + B = B + A
//	   3 | shape f(a,, b)
//	     |            ^
//
// Errors of any other type pass through unchanged.
package noq

import (
	"fmt"
	"strings"
)

type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// ErrorKind discriminates eval errors.
type ErrorKind int

const (
	ErrDuplicateRule ErrorKind = iota
	ErrRuleNotFound
	ErrUnboundBodyVariable
	ErrNoMatch
	ErrNoMatchAtIndex
	ErrDeepApplyLimit
	ErrEmptyHistory
	ErrAlreadyShaping
	ErrNoShaping
	ErrIO
)

// EvalError is an error raised while executing a command. Line (1-based)
// and Col (0-based, like token positions) point at the command's keyword;
// Line stays zero when the error was produced outside any source context
// (e.g. direct engine use).
type EvalError struct {
	Kind ErrorKind
	Line int
	Col  int
	Msg  string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
	}
	return "ERROR: " + e.Msg
}

func evalErrf(kind ErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *EvalError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := err.(*EvalError)
	return ok && e.Kind == kind
}

/* ===========================
   Snippet rendering
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes the three noq error types
// and leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("in <name>")
// in the header, typically a file path.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *EvalError:
		if e.Line == 0 {
			return err
		}
		return fmt.Errorf("%s", snippet(src, "ERROR", srcName, e.Line, e.Col+1, e.Msg))
	default:
		return err
	}
}

// snippet builds the caret-annotated context block. Coordinates are
// 1-based and clamped to the source so rendering never panics.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
