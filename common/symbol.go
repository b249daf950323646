package common

import (
	"pyrite/report"
	"pyrite/types"
)

// Symbol represents a semantic symbol: a named value or definition.
type Symbol struct {
	// The name of the symbol.
	Name string

	// Where the symbol was declared.
	DefSpan *report.TextSpan

	// The type of the value stored in the symbol.
	Type types.Descriptor

	// The symbol's kind: what kind of thing this symbol represents.  This
	// must be one of the enumerated definition kinds.
	DefKind int

	// Whether or not the symbol is constant.
	Constant bool

	// Whether or not the symbol was actually used.
	Used bool
}

// Enumeration of different symbol kinds.
const (
	DefKindValue = iota
	DefKindFunc
	DefKindModule
)
