package ast

import (
	"pyrite/common"
	"pyrite/types"
)

// Enumeration of the decorator vocabulary the printers special-case when
// re-emitting a definition.
const (
	DecorKernel   = "kernel"   // Offload-kernel marker.
	DecorDevice   = "device"   // Offload-device marker.
	DecorTypes    = "types"    // Explicit argument type list.
	DecorTemplate = "template" // Generic marker with concrete instantiations.
)

// Decorator is a prefix annotation on a definition.  Multiple decorators on
// one definition are re-emitted concatenated, most recently processed first.
type Decorator struct {
	// The decorator name.  The printers special-case the names enumerated
	// above; anything else is re-emitted verbatim.
	Name string

	// The decorator's argument list, if any.
	Args []string

	// For a template decorator, the underlying concrete instantiations.
	Instances [][]string
}

// FuncArg is one formal argument of a function definition.
type FuncArg struct {
	Name Symbol
	Type types.Descriptor

	// The surface type annotation, re-emitted by source-level backends.
	Annotation string

	// The default value, if any.
	Default Expr
}

// -----------------------------------------------------------------------------

// Def represents a top level definition in user source code.
type Def interface {
	Node

	// Names returns the list of names this definition defines.
	Names() []string
}

// FuncDef is a function definition.
type FuncDef struct {
	NodeBase

	Name    Symbol
	Args    []*FuncArg
	Results []*Variable
	Body    *CodeBlock

	// Nested declarations, re-emitted in the fixed order: imports, then
	// functions and interfaces, then the main body.
	Imports    []*Import
	Functions  []*FuncDef
	Interfaces []*Interface

	Decorators []*Decorator
	DocString  string

	// The lexical scope of the function body.
	Scope *common.Scope
}

func (fd *FuncDef) Names() []string {
	return []string{string(fd.Name)}
}

func (fd *FuncDef) Children() []Node {
	var children []Node
	for _, imp := range fd.Imports {
		children = append(children, imp)
	}
	for _, fn := range fd.Functions {
		children = append(children, fn)
	}
	for _, itf := range fd.Interfaces {
		children = append(children, itf)
	}
	for _, arg := range fd.Args {
		children = exprChildren(children, arg.Default)
	}
	if fd.Body != nil {
		children = append(children, fd.Body)
	}

	return children
}

func (fd *FuncDef) replaceChild(old, new Node) bool {
	replaced := false
	for i, imp := range fd.Imports {
		if Node(imp) == old {
			if nimp, ok := new.(*Import); ok {
				fd.Imports[i] = nimp
				replaced = true
			}
		}
	}
	for _, arg := range fd.Args {
		replaced = setExpr(&arg.Default, old, new) || replaced
	}
	for i, fn := range fd.Functions {
		if Node(fn) == old {
			if nfn, ok := new.(*FuncDef); ok {
				fd.Functions[i] = nfn
				replaced = true
			}
		}
	}
	for i, itf := range fd.Interfaces {
		if Node(itf) == old {
			if nitf, ok := new.(*Interface); ok {
				fd.Interfaces[i] = nitf
				replaced = true
			}
		}
	}

	return setBlock(&fd.Body, old, new) || replaced
}

// HasDecorator returns whether the definition carries a decorator with the
// given name.
func (fd *FuncDef) HasDecorator(name string) bool {
	for _, dec := range fd.Decorators {
		if dec.Name == name {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// Interface groups the concrete instantiations of one generic definition under
// a single callable name.
type Interface struct {
	NodeBase

	Name      Symbol
	Functions []*FuncDef
}

func (itf *Interface) Names() []string {
	return []string{string(itf.Name)}
}

func (itf *Interface) Children() []Node {
	children := make([]Node, 0, len(itf.Functions))
	for _, fn := range itf.Functions {
		children = append(children, fn)
	}

	return children
}

func (itf *Interface) replaceChild(old, new Node) bool {
	replaced := false
	for i, fn := range itf.Functions {
		if Node(fn) == old {
			if nfn, ok := new.(*FuncDef); ok {
				itf.Functions[i] = nfn
				replaced = true
			}
		}
	}

	return replaced
}

// Covers returns whether fn is one of the interface's instantiations.
func (itf *Interface) Covers(fn *FuncDef) bool {
	for _, f := range itf.Functions {
		if f == fn {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// AsName is an import target with an optional alias.
type AsName struct {
	Name  Symbol
	Alias Symbol
}

// Import is a source-level import of targets from a module.
type Import struct {
	NodeBase

	Source  Symbol
	Targets []*AsName
}

func (imp *Import) Children() []Node            { return nil }
func (imp *Import) replaceChild(_, _ Node) bool { return false }

// -----------------------------------------------------------------------------

// Module is a whole compilation unit: its imports, definitions, and optional
// executable program section.
type Module struct {
	NodeBase

	Name       Symbol
	Imports    []*Import
	Interfaces []*Interface
	Funcs      []*FuncDef

	// The executable (main script) section, if any.
	Program *Program

	// The module-level lexical scope.
	Scope *common.Scope
}

func (m *Module) Names() []string {
	return []string{string(m.Name)}
}

func (m *Module) Children() []Node {
	var children []Node
	for _, imp := range m.Imports {
		children = append(children, imp)
	}
	for _, itf := range m.Interfaces {
		children = append(children, itf)
	}
	for _, fn := range m.Funcs {
		children = append(children, fn)
	}
	if m.Program != nil {
		children = append(children, m.Program)
	}

	return children
}

func (m *Module) replaceChild(old, new Node) bool {
	replaced := false
	for i, imp := range m.Imports {
		if Node(imp) == old {
			if nimp, ok := new.(*Import); ok {
				m.Imports[i] = nimp
				replaced = true
			}
		}
	}
	for i, itf := range m.Interfaces {
		if Node(itf) == old {
			if nitf, ok := new.(*Interface); ok {
				m.Interfaces[i] = nitf
				replaced = true
			}
		}
	}
	for i, fn := range m.Funcs {
		if Node(fn) == old {
			if nfn, ok := new.(*FuncDef); ok {
				m.Funcs[i] = nfn
				replaced = true
			}
		}
	}
	if m.Program != nil && Node(m.Program) == old {
		if np, ok := new.(*Program); ok {
			m.Program = np
			replaced = true
		}
	}

	return replaced
}

// CoveredByInterface returns whether fn is an instantiation of one of the
// module's interfaces.
func (m *Module) CoveredByInterface(fn *FuncDef) bool {
	for _, itf := range m.Interfaces {
		if itf.Covers(fn) {
			return true
		}
	}

	return false
}

// Program is the executable section of a module.
type Program struct {
	NodeBase

	Imports []*Import
	Body    *CodeBlock

	Scope *common.Scope
}

func (p *Program) Children() []Node {
	var children []Node
	for _, imp := range p.Imports {
		children = append(children, imp)
	}
	if p.Body != nil {
		children = append(children, p.Body)
	}

	return children
}

func (p *Program) replaceChild(old, new Node) bool {
	replaced := false
	for i, imp := range p.Imports {
		if Node(imp) == old {
			if nimp, ok := new.(*Import); ok {
				p.Imports[i] = nimp
				replaced = true
			}
		}
	}

	return setBlock(&p.Body, old, new) || replaced
}
