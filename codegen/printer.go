// Package codegen is the multi-target printing framework: it walks a
// finished, type-resolved node graph and renders it as target-language source
// text, one backend per target.  Rendering dispatches purely on the node's
// variant; a variant with no rendering rule for the active backend is a fatal
// diagnostic, never a silent skip.
package codegen

import (
	"strings"

	"pyrite/ast"
	"pyrite/common"
	"pyrite/report"
)

// Target enumerates the source-level output languages.
type Target int

const (
	TargetPython Target = iota
	TargetC
)

func (t Target) String() string {
	switch t {
	case TargetPython:
		return "python"
	case TargetC:
		return "c"
	default:
		return "unknown"
	}
}

// Print renders the module for the given target and returns the rendered
// source text.  A fatal diagnostic aborts the unit by unwinding to the
// caller's CatchUnit handler: callers must check the reporter's fatal count
// before using the returned text.
func Print(target Target, mod *ast.Module, g *ast.Graph, rep *report.Reporter) string {
	switch target {
	case TargetPython:
		return newPyPrinter(g, rep).printModule(mod)
	case TargetC:
		return newCPrinter(g, rep).printModule(mod)
	default:
		rep.ICE("no printer registered for target `%s`", target)
		return ""
	}
}

// -----------------------------------------------------------------------------

// importSet is the set of symbols synthesized from one source module, in
// registration order.
type importSet struct {
	names   []string
	aliases map[string]string
}

// printer holds the cross-cutting state shared by the source-level backends.
// All of it is scoped to a single compilation unit and must not leak across
// units.
type printer struct {
	// The node graph being printed.
	graph *ast.Graph

	// The reporter of the unit being printed.
	rep *report.Reporter

	// One indentation level.
	tab string

	// The synthesized imports: source module to imported symbols.  A symbol
	// is registered exactly once per (source, symbol) pair.
	imports     map[string]*importSet
	importOrder []string

	// The aliases in effect for library entry points, keyed by
	// "source.symbol".  Once an alias is chosen it is threaded through every
	// later reference to that symbol.
	aliases map[string]string

	// The stack of lexical scopes entered during printing.
	scopes []*common.Scope
}

func newPrinter(g *ast.Graph, rep *report.Reporter) printer {
	return printer{
		graph:   g,
		rep:     rep,
		tab:     "    ",
		imports: make(map[string]*importSet),
		aliases: make(map[string]string),
	}
}

// -----------------------------------------------------------------------------

// enterScope pushes a scope onto the scope stack.  A nil scope pushes a fresh
// scope enclosed by the current one.  Every enterScope must be balanced by
// exactly one exitScope on every control path: callers defer exitScope
// immediately after entering.
func (p *printer) enterScope(s *common.Scope) {
	if s == nil {
		s = common.NewScope(p.scope())
	}

	p.scopes = append(p.scopes, s)
}

// exitScope pops the current scope off the scope stack.
func (p *printer) exitScope() {
	if len(p.scopes) == 0 {
		p.rep.ICE("unbalanced scope exit during printing")
	}

	p.scopes = p.scopes[:len(p.scopes)-1]
}

// scope returns the current scope, or nil if no scope has been entered.
func (p *printer) scope() *common.Scope {
	if len(p.scopes) == 0 {
		return nil
	}

	return p.scopes[len(p.scopes)-1]
}

// freshName returns a target identifier derived from hint that collides with
// no visible binding.
func (p *printer) freshName(hint string) string {
	if s := p.scope(); s != nil {
		return s.FreshName(hint)
	}

	return hint
}

// -----------------------------------------------------------------------------

// registerImport registers a synthesized import of symbol from source under
// the given alias.  Registering the same (source, symbol) pair again is a
// no-op: the alias chosen first stays in effect.  The chosen alias is
// returned.
func (p *printer) registerImport(source, symbol, alias string) string {
	if alias == "" {
		alias = symbol
	}

	set, ok := p.imports[source]
	if !ok {
		set = &importSet{aliases: make(map[string]string)}
		p.imports[source] = set
		p.importOrder = append(p.importOrder, source)
	}

	if existing, ok := set.aliases[symbol]; ok {
		return existing
	}

	set.names = append(set.names, symbol)
	set.aliases[symbol] = alias
	return alias
}

// -----------------------------------------------------------------------------

// indentBlock applies one indentation level to fully rendered body text.  A
// multi-line body always ends with a line terminator before indentation so
// that nesting composes without stray blank lines.
func (p *printer) indentBlock(lines string) string {
	if lines == "" {
		return lines
	}

	return p.tab + strings.ReplaceAll(strings.Trim(lines, "\n"), "\n", "\n"+p.tab) + "\n"
}
