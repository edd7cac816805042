// rule.go: rewrite rules.
package noq

import (
	"sort"
	"strings"
)

// Rule is a rewrite rule: occurrences matching Head are replaced by Body
// under the match's bindings. Name is empty for anonymous rules, which
// exist only for the duration of one apply statement and behave exactly
// like named ones.
type Rule struct {
	Name string
	Head *Expr
	Body *Expr
}

// Validate checks the definition invariant: every variable in the body
// must also occur in the head. Violations yield ErrUnboundBodyVariable.
func (r Rule) Validate() error {
	headVars := map[string]bool{}
	r.Head.Vars(headVars)
	bodyVars := map[string]bool{}
	r.Body.Vars(bodyVars)

	var unbound []string
	for v := range bodyVars {
		if !headVars[v] && v != "_" {
			unbound = append(unbound, v)
		}
	}
	if len(unbound) == 0 {
		return nil
	}
	sort.Strings(unbound)
	return evalErrf(ErrUnboundBodyVariable,
		"body of rule uses variable(s) not bound by its head: %s",
		strings.Join(unbound, ", "))
}

// Reversed swaps head and body. The result is not necessarily a valid
// rule; callers validate before applying it.
func (r Rule) Reversed() Rule {
	return Rule{Name: r.Name, Head: r.Body, Body: r.Head}
}
