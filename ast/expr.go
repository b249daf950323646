package ast

import (
	"pyrite/report"
	"pyrite/types"
)

// OpKind enumerates the operators of unary and binary expressions.
type OpKind int

const (
	OpAdd OpKind = iota
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLShift
	OpRShift
	OpIs
	OpIsNot
	OpNot
	OpNeg
	OpPos
	OpInvert
)

// -----------------------------------------------------------------------------

// Literal is a literal constant.  The text is the canonical source spelling of
// the constant; the descriptor decides whether a backend must wrap it in a
// width-specific constructor.
type Literal struct {
	ExprBase

	Text string
}

func (l *Literal) Children() []Node            { return nil }
func (l *Literal) replaceChild(_, _ Node) bool { return false }

// Variable is a reference to a typed variable.
type Variable struct {
	ExprBase

	Name Symbol
}

func (v *Variable) Children() []Node            { return nil }
func (v *Variable) replaceChild(_, _ Node) bool { return false }

// -----------------------------------------------------------------------------

// IndexedElement is a subscript of an array-valued expression.  Each index is
// either an integer expression or a slice.
type IndexedElement struct {
	ExprBase

	Base    Expr
	Indices []Expr
}

func (ie *IndexedElement) Children() []Node {
	return exprChildren(exprChildren(nil, ie.Base), ie.Indices...)
}

func (ie *IndexedElement) replaceChild(old, new Node) bool {
	replaced := setExpr(&ie.Base, old, new)
	return setExprList(ie.Indices, old, new) || replaced
}

// SliceExpr is a slice descriptor: start, stop, and step, each independently
// optional.
type SliceExpr struct {
	ExprBase

	Start, Stop, Step Expr
}

// NewSlice creates a slice descriptor.  Under the semantic stage every present
// bound must already be of integer kind: a violation is raised immediately at
// construction, not deferred to a later validation pass.
func NewSlice(g *Graph, start, stop, step Expr, span *report.TextSpan) *SliceExpr {
	if g.Stage() == StageSemantic {
		for _, bound := range []struct {
			name string
			expr Expr
		}{{"start", start}, {"stop", stop}, {"step", step}} {
			if bound.expr != nil && bound.expr.Type().Kind != types.KindInt {
				panic(report.Raise(span, "slice %s must be an integer, not `%s`",
					bound.name, bound.expr.Type().Repr()))
			}
		}
	}

	return &SliceExpr{
		ExprBase: NewExprBase(types.Scalar(types.KindNothing), span),
		Start:    start,
		Stop:     stop,
		Step:     step,
	}
}

func (s *SliceExpr) Children() []Node {
	return exprChildren(nil, s.Start, s.Stop, s.Step)
}

func (s *SliceExpr) replaceChild(old, new Node) bool {
	replaced := setExpr(&s.Start, old, new)
	replaced = setExpr(&s.Stop, old, new) || replaced
	return setExpr(&s.Step, old, new) || replaced
}

// RangeExpr is an integer iteration space: start, stop, step.
type RangeExpr struct {
	ExprBase

	Start, Stop, Step Expr
}

func (r *RangeExpr) Children() []Node {
	return exprChildren(nil, r.Start, r.Stop, r.Step)
}

func (r *RangeExpr) replaceChild(old, new Node) bool {
	replaced := setExpr(&r.Start, old, new)
	replaced = setExpr(&r.Stop, old, new) || replaced
	return setExpr(&r.Step, old, new) || replaced
}

// -----------------------------------------------------------------------------

// TupleExpr is a tuple display.
type TupleExpr struct {
	ExprBase

	Elems []Expr
}

func (t *TupleExpr) Children() []Node {
	return exprChildren(nil, t.Elems...)
}

func (t *TupleExpr) replaceChild(old, new Node) bool {
	return setExprList(t.Elems, old, new)
}

// ListExpr is a list display.
type ListExpr struct {
	ExprBase

	Elems []Expr
}

func (l *ListExpr) Children() []Node {
	return exprChildren(nil, l.Elems...)
}

func (l *ListExpr) replaceChild(old, new Node) bool {
	return setExprList(l.Elems, old, new)
}

// -----------------------------------------------------------------------------

// UnaryExpr is the application of a unary operator.
type UnaryExpr struct {
	ExprBase

	Op      OpKind
	Operand Expr
}

func (u *UnaryExpr) Children() []Node {
	return exprChildren(nil, u.Operand)
}

func (u *UnaryExpr) replaceChild(old, new Node) bool {
	return setExpr(&u.Operand, old, new)
}

// BinaryExpr is the application of a binary operator.
type BinaryExpr struct {
	ExprBase

	Op       OpKind
	Lhs, Rhs Expr
}

func (b *BinaryExpr) Children() []Node {
	return exprChildren(nil, b.Lhs, b.Rhs)
}

func (b *BinaryExpr) replaceChild(old, new Node) bool {
	replaced := setExpr(&b.Lhs, old, new)
	return setExpr(&b.Rhs, old, new) || replaced
}

// ParenExpr is an associative parenthesis preserved from the source.
type ParenExpr struct {
	ExprBase

	Inner Expr
}

func (p *ParenExpr) Children() []Node {
	return exprChildren(nil, p.Inner)
}

func (p *ParenExpr) replaceChild(old, new Node) bool {
	return setExpr(&p.Inner, old, new)
}

// TernaryExpr is a conditional expression.
type TernaryExpr struct {
	ExprBase

	Cond, TrueVal, FalseVal Expr
}

func (t *TernaryExpr) Children() []Node {
	return exprChildren(nil, t.Cond, t.TrueVal, t.FalseVal)
}

func (t *TernaryExpr) replaceChild(old, new Node) bool {
	replaced := setExpr(&t.Cond, old, new)
	replaced = setExpr(&t.TrueVal, old, new) || replaced
	return setExpr(&t.FalseVal, old, new) || replaced
}

// -----------------------------------------------------------------------------

// FuncCall is a call to a user-defined function.  The definition is a
// reference, not an owned child.
type FuncCall struct {
	ExprBase

	// The called definition.  May be nil for calls resolved by name only.
	Def *FuncDef

	// The name the function was called by.
	Name Symbol

	Args []Expr
}

func (fc *FuncCall) Children() []Node {
	return exprChildren(nil, fc.Args...)
}

func (fc *FuncCall) replaceChild(old, new Node) bool {
	return setExprList(fc.Args, old, new)
}

// IntrinsicCall is a call to a known library entry point: an internal function
// the printer resolves against the active backend's name-swap table and
// imports on demand.  The elemental flag declares that the function applies
// independently to each element of an array argument; printers consult it to
// choose between a direct library call and an explicit loop.
type IntrinsicCall struct {
	ExprBase

	// The canonical source module of the entry point (eg. "numpy", "math").
	Module string

	// The canonical internal name of the entry point.
	Name string

	Args []Expr

	// Whether the call broadcasts elementwise over array arguments.
	Elemental bool
}

func (ic *IntrinsicCall) Children() []Node {
	return exprChildren(nil, ic.Args...)
}

func (ic *IntrinsicCall) replaceChild(old, new Node) bool {
	return setExprList(ic.Args, old, new)
}

// ArraySize is the extent of an array expression along one dimension.
type ArraySize struct {
	ExprBase

	Arg Expr
	Dim Expr
}

// NewArraySize creates an array extent expression.  Its type is always a
// default-precision integer scalar.
func NewArraySize(arg, dim Expr, span *report.TextSpan) *ArraySize {
	return &ArraySize{
		ExprBase: NewExprBase(types.Scalar(types.KindInt), span),
		Arg:      arg,
		Dim:      dim,
	}
}

func (as *ArraySize) Children() []Node {
	return exprChildren(nil, as.Arg, as.Dim)
}

func (as *ArraySize) replaceChild(old, new Node) bool {
	replaced := setExpr(&as.Arg, old, new)
	return setExpr(&as.Dim, old, new) || replaced
}

// CastExpr is an explicit conversion inserted upstream of printing.  The
// expression's own descriptor is the target of the conversion; printers map it
// through the active backend's kind and precision constructor table.
type CastExpr struct {
	ExprBase

	Arg Expr
}

func (c *CastExpr) Children() []Node {
	return exprChildren(nil, c.Arg)
}

func (c *CastExpr) replaceChild(old, new Node) bool {
	return setExpr(&c.Arg, old, new)
}
