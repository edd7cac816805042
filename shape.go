// shape.go: the shaping session state machine.
//
// A Session is created by `shape <expr>` and accepts apply/undo while
// Active. `done` ends it with a result; `quit` discards it. Because
// expression trees are immutable, history entries are simply the old
// Current pointers; undo restores the exact snapshot, not a copy.
package noq

// SessionState is the lifecycle state of a shaping session.
type SessionState int

const (
	SessionActive SessionState = iota
	SessionDone
	SessionQuit
)

// Session holds the expression being shaped and its undo history.
type Session struct {
	state   SessionState
	current *Expr
	history []*Expr
}

// NewSession starts shaping the given expression.
func NewSession(initial *Expr) *Session {
	return &Session{state: SessionActive, current: initial}
}

// State returns the session's lifecycle state.
func (s *Session) State() SessionState { return s.state }

// Current returns the expression being shaped. For a Done session this is
// the shaping result; for a Quit session it is meaningless.
func (s *Session) Current() *Expr { return s.current }

// HistoryLen returns the number of undo snapshots.
func (s *Session) HistoryLen() int { return len(s.history) }

// Apply rewrites the current expression with the rule and strategy. On
// success the old expression is pushed onto the history; on failure the
// session is left exactly as it was and stays Active.
func (s *Session) Apply(e *Engine, rule Rule, strategy Strategy) (*Expr, int, error) {
	if err := s.requireActive(); err != nil {
		return nil, 0, err
	}
	next, n, err := e.Apply(s.current, rule, strategy)
	if err != nil {
		return nil, 0, err
	}
	s.history = append(s.history, s.current)
	s.current = next
	return next, n, nil
}

// Undo pops the most recent snapshot back into the current expression.
func (s *Session) Undo() (*Expr, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	if len(s.history) == 0 {
		return nil, evalErrf(ErrEmptyHistory, "nothing to undo")
	}
	s.current = s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return s.current, nil
}

// Done finishes the session and returns the final expression.
func (s *Session) Done() (*Expr, error) {
	if err := s.requireActive(); err != nil {
		return nil, err
	}
	s.state = SessionDone
	return s.current, nil
}

// Quit abandons the session.
func (s *Session) Quit() {
	s.state = SessionQuit
}

func (s *Session) requireActive() error {
	if s.state != SessionActive {
		return evalErrf(ErrNoShaping, "shaping session is already finished")
	}
	return nil
}
