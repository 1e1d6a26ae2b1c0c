package compiler

import (
	"fmt"
	"strings"
)

// Scope maps declared variable names to their resolved Type.
//
// Entries are insert-only: the language has no reassignment, so a name keeps
// the type it was declared with. Lookups fall back to the parent scope; the
// compiler itself only ever uses a single root scope.
type Scope struct {
	parent *Scope // not owned
	vars   map[string]Type
	order  []string // declaration order, for String()
}

// NewScope returns an empty scope whose lookups fall back to parent, which
// may be nil.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: make(map[string]Type)}
}

// Declare records name with type t in this scope. Declaring a name that is
// already visible fails.
func (s *Scope) Declare(name string, t Type) error {
	if _, ok := s.Lookup(name); ok {
		return fmt.Errorf("Variable already declared: %s", name)
	}
	s.vars[name] = t
	s.order = append(s.order, name)
	return nil
}

// Lookup returns the type of name and whether it was found, searching
// enclosing scopes outwards.
func (s *Scope) Lookup(name string) (Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.vars[name]; ok {
			return t, true
		}
	}
	return Void, false
}

// Len returns the number of names declared directly in s.
func (s *Scope) Len() int { return len(s.order) }

// String dumps the scope's own entries in declaration order.
func (s *Scope) String() string {
	if len(s.order) == 0 {
		return "Variables: (empty)\n"
	}
	var sb strings.Builder
	sb.WriteString("Variables:\n")
	for _, name := range s.order {
		fmt.Fprintf(&sb, "  %-20s  %s\n", name, s.vars[name])
	}
	return sb.String()
}
