package ast

import (
	"pyrite/report"
	"pyrite/types"
)

// Node is the abstract interface for all AST nodes.  A node is created once
// per logical construct and is replaced, never mutated in place, when a
// construct must change shape: rebinding happens only through the owning
// graph's Substitute so the reverse index stays current.
type Node interface {
	// The text span of the source construct the node was built from.
	Span() *report.TextSpan

	// The node's current owned-child slots, in slot order.  Empty slots are
	// omitted.
	Children() []Node

	// replaceChild rebinds every owned-child slot currently holding old to
	// hold new instead.  It reports whether any slot was rebound.
	replaceChild(old, new Node) bool
}

// NodeBase is a utility base struct for all AST nodes.
type NodeBase struct {
	// The span over which the node occurs.
	span *report.TextSpan
}

// NewNodeBaseOn creates a new node base with the given span.
func NewNodeBaseOn(span *report.TextSpan) NodeBase {
	return NodeBase{span: span}
}

// NewNodeBaseOver creates a new node base spanning over two spans.
func NewNodeBaseOver(start, end *report.TextSpan) NodeBase {
	return NodeBase{span: report.NewSpanOver(start, end)}
}

func (nb NodeBase) Span() *report.TextSpan {
	return nb.span
}

// -----------------------------------------------------------------------------

// Symbol is an immutable name token: an identifier whose type is not yet, or
// need not be, resolved.  It denotes module, function, and variable names
// before or independent of type resolution.
type Symbol string

// -----------------------------------------------------------------------------

// Expr is the interface for all typed expression nodes.  Every expression
// carries a resolved type descriptor by the time it reaches a printer.
type Expr interface {
	Node

	// The resolved type descriptor of the expression.  Type is pure and
	// idempotent: it never mutates the node.
	Type() types.Descriptor

	// The shape of the expression: one dimension expression per rank entry.
	// A nil shape means the shape is unknown.
	Shape() []Expr
}

// ExprBase is the base struct for all expression nodes.
type ExprBase struct {
	NodeBase

	typ   types.Descriptor
	shape []Expr
}

// NewExprBase creates a new expression base with the given resolved type.
func NewExprBase(typ types.Descriptor, span *report.TextSpan) ExprBase {
	return ExprBase{NodeBase: NewNodeBaseOn(span), typ: typ}
}

// NewShapedExprBase creates a new expression base with an explicit shape.
func NewShapedExprBase(typ types.Descriptor, shape []Expr, span *report.TextSpan) ExprBase {
	return ExprBase{NodeBase: NewNodeBaseOn(span), typ: typ, shape: shape}
}

func (eb ExprBase) Type() types.Descriptor {
	return eb.typ
}

func (eb ExprBase) Shape() []Expr {
	return eb.shape
}

// -----------------------------------------------------------------------------

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node

	stmtNode()
}

// StmtBase is the base struct for all statement nodes.
type StmtBase struct {
	NodeBase
}

// NewStmtBaseOn creates a new statement base with the given span.
func NewStmtBaseOn(span *report.TextSpan) StmtBase {
	return StmtBase{NodeBase: NewNodeBaseOn(span)}
}

func (StmtBase) stmtNode() {}

// -----------------------------------------------------------------------------

// exprChildren converts a list of expression slots into child nodes, skipping
// empty slots.
func exprChildren(dst []Node, exprs ...Expr) []Node {
	for _, e := range exprs {
		if e != nil {
			dst = append(dst, e)
		}
	}

	return dst
}

// setExpr rebinds an expression slot if it currently holds old.
func setExpr(slot *Expr, old, new Node) bool {
	if *slot == nil || Node(*slot) != old {
		return false
	}

	e, ok := new.(Expr)
	if !ok {
		return false
	}

	*slot = e
	return true
}

// setExprList rebinds every slot in a list of expression slots holding old.
func setExprList(slots []Expr, old, new Node) bool {
	replaced := false
	for i := range slots {
		replaced = setExpr(&slots[i], old, new) || replaced
	}

	return replaced
}

// setStmt rebinds a statement slot if it currently holds old.
func setStmt(slot *Stmt, old, new Node) bool {
	if *slot == nil || Node(*slot) != old {
		return false
	}

	s, ok := new.(Stmt)
	if !ok {
		return false
	}

	*slot = s
	return true
}

// setStmtList rebinds every slot in a list of statement slots holding old.
func setStmtList(slots []Stmt, old, new Node) bool {
	replaced := false
	for i := range slots {
		replaced = setStmt(&slots[i], old, new) || replaced
	}

	return replaced
}

// setBlock rebinds a code block slot if it currently holds old.
func setBlock(slot **CodeBlock, old, new Node) bool {
	if *slot == nil || Node(*slot) != old {
		return false
	}

	b, ok := new.(*CodeBlock)
	if !ok {
		return false
	}

	*slot = b
	return true
}
