package common

import (
	"sort"
	"strconv"
)

// Scope is a lexical symbol table: a map of declarations together with a
// back-reference to the enclosing scope.  A scope only lives as long as the
// walk that created it: walkers and printers create a scope on entry to a
// lexical construct and discard it on exit.
type Scope struct {
	// The enclosing scope, or nil for the root scope.
	Parent *Scope

	// The declarations made directly in this scope.
	symbols map[string]*Symbol
}

// NewScope creates a new scope enclosed by parent.  Parent may be nil for the
// root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, symbols: make(map[string]*Symbol)}
}

// Declare binds a symbol in this scope.  It returns false if the name is
// already bound directly in this scope.
func (s *Scope) Declare(sym *Symbol) bool {
	if _, ok := s.symbols[sym.Name]; ok {
		return false
	}

	s.symbols[sym.Name] = sym
	return true
}

// Lookup finds the declaration of name, walking enclosing scopes outward.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// Visible returns whether name is bound in this scope or any visible ancestor.
func (s *Scope) Visible(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// FreshName returns a name derived from hint which is not bound in this scope
// or any visible ancestor.  The returned name is declared in this scope so
// that repeated calls never return the same name twice.
func (s *Scope) FreshName(hint string) string {
	name := hint
	for n := 0; s.Visible(name); n++ {
		name = hint + "_" + strconv.Itoa(n)
	}

	s.Declare(&Symbol{Name: name})
	return name
}

// Symbols returns the declarations made directly in this scope in name order.
func (s *Scope) Symbols() []*Symbol {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	syms := make([]*Symbol, len(names))
	for i, name := range names {
		syms[i] = s.symbols[name]
	}

	return syms
}
