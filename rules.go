// rules.go: the named rule table and its file persistence.
//
// Rule files are plain `.noq` sources restricted to `rule` declarations.
// LoadFile parses and validates the whole file before touching the table,
// so a failed load leaves it unchanged; SaveFile writes a temp file and
// renames it into place, so a failed save leaves the target unchanged.
package noq

import (
	"os"
	"path/filepath"
	"sort"
)

// RuleTable maps rule names to rules. Not safe for concurrent use; the
// whole engine is a single synchronous command stream.
type RuleTable struct {
	rules map[string]Rule
}

// NewRuleTable returns an empty table.
func NewRuleTable() *RuleTable {
	return &RuleTable{rules: map[string]Rule{}}
}

// Define validates r and inserts it. Redefinition fails with
// ErrDuplicateRule; an unbound body variable with ErrUnboundBodyVariable.
func (t *RuleTable) Define(r Rule) error {
	if _, exists := t.rules[r.Name]; exists {
		return evalErrf(ErrDuplicateRule, "redefinition of existing rule %s", r.Name)
	}
	if err := r.Validate(); err != nil {
		return err
	}
	t.rules[r.Name] = r
	return nil
}

// Delete removes a rule by name.
func (t *RuleTable) Delete(name string) error {
	if _, ok := t.rules[name]; !ok {
		return evalErrf(ErrRuleNotFound, "rule %s does not exist", name)
	}
	delete(t.rules, name)
	return nil
}

// Get looks a rule up by name.
func (t *RuleTable) Get(name string) (Rule, error) {
	r, ok := t.rules[name]
	if !ok {
		return Rule{}, evalErrf(ErrRuleNotFound, "rule %s does not exist", name)
	}
	return r, nil
}

// Names returns the defined rule names, sorted.
func (t *RuleTable) Names() []string {
	names := make([]string, 0, len(t.rules))
	for name := range t.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined rules.
func (t *RuleTable) Len() int { return len(t.rules) }

// LoadFile merges the rule declarations from path into the table.
// All-or-nothing: lex/parse errors, non-rule statements, invalid rules
// and name collisions (against the table or within the file) all abort
// the load with the table untouched.
func (t *RuleTable) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return evalErrf(ErrIO, "cannot load %s: %v", path, err)
	}
	src := string(data)
	cmds, err := ParseProgram(src)
	if err != nil {
		return WrapErrorWithName(err, path, src)
	}

	incoming := map[string]Rule{}
	for _, cmd := range cmds {
		if cmd.Kind != CmdDefineRule {
			perr := &ParseError{Line: cmd.Line, Col: cmd.Col,
				Msg: "rule files may only contain rule declarations"}
			return WrapErrorWithName(perr, path, src)
		}
		r := Rule{Name: cmd.Name, Head: cmd.Head, Body: cmd.Body}
		if err := r.Validate(); err != nil {
			if e, ok := err.(*EvalError); ok {
				e.Line, e.Col = cmd.Line, cmd.Col
			}
			return WrapErrorWithName(err, path, src)
		}
		_, inTable := t.rules[r.Name]
		_, inFile := incoming[r.Name]
		if inTable || inFile {
			dup := evalErrf(ErrDuplicateRule, "redefinition of existing rule %s", r.Name)
			dup.Line, dup.Col = cmd.Line, cmd.Col
			return WrapErrorWithName(dup, path, src)
		}
		incoming[r.Name] = r
	}

	for name, r := range incoming {
		t.rules[name] = r
	}
	return nil
}

// SaveFile writes the table in its textual form, atomically.
func (t *RuleTable) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".noq-save-*")
	if err != nil {
		return evalErrf(ErrIO, "cannot save %s: %v", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(FormatRules(t)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return evalErrf(ErrIO, "cannot save %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return evalErrf(ErrIO, "cannot save %s: %v", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return evalErrf(ErrIO, "cannot save %s: %v", path, err)
	}
	return nil
}
