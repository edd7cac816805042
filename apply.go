// apply.go: the rule application engine.
//
// The engine is a pure function of (target, rule, strategy): it never
// mutates its inputs and all session bookkeeping lives in shape.go.
// Candidate subterms are enumerated in pre-order — a node first, then its
// functor, then its arguments left to right — which fixes which
// occurrence "first" and "the N-th" refer to.
//
// Strategies:
//
//	First  rewrite the first matching occurrence (the default)
//	All    rewrite every occurrence that matches the original tree;
//	       each occurrence gets independent bindings, an outer match
//	       shadows matches strictly inside it, and replacements are
//	       never re-matched within the same call
//	Deep   repeat First until nothing matches, bounded by DeepLimit
//	Nth    rewrite only the N-th (0-indexed) matching occurrence
//
// A strategy that rewrites nothing is an error (ErrNoMatch, or
// ErrNoMatchAtIndex for Nth), so the caller can keep its state untouched.
package noq

import "fmt"

// StrategyKind discriminates the four application strategies.
type StrategyKind int

const (
	StrategyFirst StrategyKind = iota
	StrategyAll
	StrategyDeep
	StrategyNth
)

// Strategy selects which matching occurrences an apply rewrites.
type Strategy struct {
	Kind  StrategyKind
	Index int // Nth only, 0-indexed
}

func First() Strategy    { return Strategy{Kind: StrategyFirst} }
func All() Strategy      { return Strategy{Kind: StrategyAll} }
func Deep() Strategy     { return Strategy{Kind: StrategyDeep} }
func Nth(n int) Strategy { return Strategy{Kind: StrategyNth, Index: n} }

func (s Strategy) String() string {
	switch s.Kind {
	case StrategyAll:
		return "all"
	case StrategyDeep:
		return "deep"
	case StrategyNth:
		return fmt.Sprintf("%d", s.Index)
	default:
		return "first"
	}
}

// DefaultDeepLimit bounds Deep iterations when Engine.DeepLimit is unset.
const DefaultDeepLimit = 1000

// Engine applies rules to expressions.
type Engine struct {
	// DeepLimit caps the number of rewrites one Deep application may
	// perform before failing with ErrDeepApplyLimit. Zero means
	// DefaultDeepLimit.
	DeepLimit int
}

// Apply rewrites target under the rule and strategy, returning the new
// tree and how many occurrences were rewritten.
func (e *Engine) Apply(target *Expr, rule Rule, strategy Strategy) (*Expr, int, error) {
	switch strategy.Kind {
	case StrategyAll:
		out, n := rewriteAll(rule, target)
		if n == 0 {
			return nil, 0, noMatchErr(rule)
		}
		return out, n, nil

	case StrategyDeep:
		return e.applyDeep(target, rule)

	case StrategyNth:
		cnt := 0
		out, done := rewriteNth(rule, target, strategy.Index, &cnt)
		if !done {
			return nil, 0, evalErrf(ErrNoMatchAtIndex,
				"no occurrence %d for rule %s: only %d match(es)",
				strategy.Index, ruleLabel(rule), cnt)
		}
		return out, 1, nil

	default: // StrategyFirst
		cnt := 0
		out, done := rewriteNth(rule, target, 0, &cnt)
		if !done {
			return nil, 0, noMatchErr(rule)
		}
		return out, 1, nil
	}
}

func (e *Engine) applyDeep(target *Expr, rule Rule) (*Expr, int, error) {
	limit := e.DeepLimit
	if limit <= 0 {
		limit = DefaultDeepLimit
	}
	cur := target
	total := 0
	for {
		cnt := 0
		next, done := rewriteNth(rule, cur, 0, &cnt)
		if !done {
			break
		}
		if total == limit {
			return nil, 0, evalErrf(ErrDeepApplyLimit,
				"deep application of rule %s did not terminate within %d rewrites",
				ruleLabel(rule), limit)
		}
		cur = next
		total++
	}
	if total == 0 {
		return nil, 0, noMatchErr(rule)
	}
	return cur, total, nil
}

// rewriteNth walks x in pre-order counting matches of rule.Head via cnt.
// When the running count reaches target the occurrence is rewritten and
// the walk halts. Reports whether the rewrite happened.
func rewriteNth(rule Rule, x *Expr, target int, cnt *int) (*Expr, bool) {
	if b, ok := Match(rule.Head, x); ok {
		if *cnt == target {
			*cnt++
			return Substitute(rule.Body, b), true
		}
		*cnt++
	}
	if x.Kind != ExprFun {
		return x, false
	}
	if newHead, done := rewriteNth(rule, x.Head, target, cnt); done {
		return Fun(newHead, x.Args...), true
	}
	for i, arg := range x.Args {
		if newArg, done := rewriteNth(rule, arg, target, cnt); done {
			args := make([]*Expr, len(x.Args))
			copy(args, x.Args)
			args[i] = newArg
			return Fun(x.Head, args...), true
		}
	}
	return x, false
}

// rewriteAll rewrites every match located against the original tree. A
// matched node is replaced wholesale and the walk does not descend into
// either the original subtree or the replacement, so the replacement
// cannot re-trigger the rule within this call.
func rewriteAll(rule Rule, x *Expr) (*Expr, int) {
	if b, ok := Match(rule.Head, x); ok {
		return Substitute(rule.Body, b), 1
	}
	if x.Kind != ExprFun {
		return x, 0
	}
	n := 0
	newHead, hn := rewriteAll(rule, x.Head)
	n += hn
	args := make([]*Expr, len(x.Args))
	for i, arg := range x.Args {
		newArg, an := rewriteAll(rule, arg)
		args[i] = newArg
		n += an
	}
	if n == 0 {
		return x, 0
	}
	return Fun(newHead, args...), n
}

func noMatchErr(rule Rule) *EvalError {
	return evalErrf(ErrNoMatch, "rule %s matches nothing in the current expression", ruleLabel(rule))
}

func ruleLabel(r Rule) string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("%s = %s", FormatExpr(r.Head), FormatExpr(r.Body))
}
