// context.go: executes parsed commands against a rule table and an
// optional shaping session.
//
// Context is the seam the front ends (cmd/noq) drive: batch mode parses a
// whole file into commands and runs them in order, the REPL runs one
// command per line. All process-scoped mutable state lives here and in
// the structs it owns; nothing is a package global, so independent
// contexts never interfere.
package noq

import (
	"fmt"
	"io"
)

// Context holds the rule table, the engine, and the current shaping
// session (if any).
type Context struct {
	Rules  *RuleTable
	Engine Engine

	// Out receives the shaping transcript (" => <expr>" after shape,
	// apply and undo). nil silences it.
	Out io.Writer

	session *Session
	quit    bool
}

// NewContext returns a fresh context with an empty rule table.
func NewContext() *Context {
	return &Context{Rules: NewRuleTable()}
}

// Quitting reports whether a top-level quit has been executed.
func (c *Context) Quitting() bool { return c.quit }

// Shaping reports whether a shaping session is active.
func (c *Context) Shaping() bool { return c.session != nil }

// Current returns the expression under shaping, or nil outside a session.
func (c *Context) Current() *Expr {
	if c.session == nil {
		return nil
	}
	return c.session.Current()
}

// RunProgram executes commands in order until the first error or a
// top-level quit.
func (c *Context) RunProgram(cmds []Command) error {
	for _, cmd := range cmds {
		if c.quit {
			return nil
		}
		if err := c.Run(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Run executes one command. Errors come back as *EvalError carrying the
// command's source position; the context is left consistent (a failed
// apply does not touch the session, a failed load does not touch the
// table).
func (c *Context) Run(cmd Command) error {
	switch cmd.Kind {
	case CmdDefineRule:
		r := Rule{Name: cmd.Name, Head: cmd.Head, Body: cmd.Body}
		return c.at(c.Rules.Define(r), cmd)

	case CmdShape:
		if c.session != nil {
			return c.at(evalErrf(ErrAlreadyShaping,
				"already shaping an expression; finish it with done first"), cmd)
		}
		c.session = NewSession(cmd.Expr)
		c.echo(cmd.Expr)
		return nil

	case CmdApply:
		if c.session == nil {
			return c.at(evalErrf(ErrNoShaping, "no shaping in place"), cmd)
		}
		rule, err := c.materialize(cmd)
		if err != nil {
			return c.at(err, cmd)
		}
		next, _, err := c.session.Apply(&c.Engine, rule, cmd.Strategy)
		if err != nil {
			return c.at(err, cmd)
		}
		c.echo(next)
		return nil

	case CmdUndo:
		if c.session == nil {
			return c.at(evalErrf(ErrNoShaping, "no shaping in place"), cmd)
		}
		prev, err := c.session.Undo()
		if err != nil {
			return c.at(err, cmd)
		}
		c.echo(prev)
		return nil

	case CmdDone:
		if c.session == nil {
			return c.at(evalErrf(ErrNoShaping, "no shaping in place"), cmd)
		}
		if _, err := c.session.Done(); err != nil {
			return c.at(err, cmd)
		}
		c.session = nil
		return nil

	case CmdQuit:
		// Inside a shaping session, quit discards the session; at the
		// top level it terminates the command stream.
		if c.session != nil {
			c.session.Quit()
			c.session = nil
			return nil
		}
		c.quit = true
		return nil

	case CmdDelete:
		return c.at(c.Rules.Delete(cmd.Name), cmd)

	case CmdLoad:
		return c.at(c.Rules.LoadFile(cmd.Path), cmd)

	case CmdSave:
		return c.at(c.Rules.SaveFile(cmd.Path), cmd)

	default:
		return c.at(evalErrf(ErrNoShaping, "unknown command kind %d", cmd.Kind), cmd)
	}
}

// materialize resolves the rule an apply statement refers to. Named rules
// come from the table; anonymous rules are built in place. Reversal swaps
// head and body and revalidates, since a reversible definition is not
// necessarily reversible-and-valid.
func (c *Context) materialize(cmd Command) (Rule, error) {
	var rule Rule
	if cmd.RuleName != "" {
		r, err := c.Rules.Get(cmd.RuleName)
		if err != nil {
			return Rule{}, err
		}
		rule = r
	} else {
		rule = Rule{Head: cmd.Head, Body: cmd.Body}
		if !cmd.Reversed {
			if err := rule.Validate(); err != nil {
				return Rule{}, err
			}
		}
	}
	if cmd.Reversed {
		rule = rule.Reversed()
		if err := rule.Validate(); err != nil {
			return Rule{}, err
		}
	}
	return rule, nil
}

func (c *Context) echo(e *Expr) {
	if c.Out != nil {
		fmt.Fprintf(c.Out, " => %s\n", FormatExpr(e))
	}
}

// at stamps the command's position onto an eval error that does not have
// one yet.
func (c *Context) at(err error, cmd Command) error {
	if e, ok := err.(*EvalError); ok && e.Line == 0 {
		e.Line, e.Col = cmd.Line, cmd.Col
	}
	return err
}
