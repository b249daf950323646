package ast

// CompMode enumerates how a comprehension combines its element values into its
// target: collect into a sequence, reduce, or apply a map.
type CompMode int

const (
	CompCollect CompMode = iota
	CompSum
	CompMax
	CompMin
	CompMap
)

// Repr returns the reduction function name of the combination mode, if any.
func (m CompMode) Repr() string {
	switch m {
	case CompSum:
		return "sum"
	case CompMax:
		return "max"
	case CompMin:
		return "min"
	case CompMap:
		return "map"
	default:
		return ""
	}
}

// LoopNester is implemented by nodes that carry a desugared loop nest.
// Printers query it independently of the node's combination mode.
type LoopNester interface {
	// LoopNest returns the desugared loop-based form of the construct.
	LoopNest() Stmt
}

// Terminal is implemented by nodes that can stand as an atomic expression
// inside a larger expression.  Printers query it independently of LoopNester.
type Terminal interface {
	// IsTerminal reports whether the construct prints as an atomic expression.
	IsTerminal() bool
}

// Comprehension is a functional for: "iterate the index variables over their
// iterables, evaluate the element expression, and combine into the target".
// The upstream semantic stage represents the body as an explicit desugared
// loop nest; the lowering pass recovers the element expression and the ordered
// iterables from it.  A comprehension appears both as an expression and, in
// desugared loop nests, as a statement feeding its target.
type Comprehension struct {
	ExprBase

	// How element values are combined into the target.
	Mode CompMode

	// The desugared loop nest computing the comprehension.
	Loops Stmt

	// The left-hand target the combination feeds.
	Target Expr

	// The comprehension's index variables, outermost first.
	Indices []Expr

	// The dummy accumulator variable the desugared nest assigns into.
	Dummy *Variable
}

func (c *Comprehension) Children() []Node {
	var children []Node
	if c.Loops != nil {
		children = append(children, c.Loops)
	}
	children = exprChildren(children, c.Target)
	children = exprChildren(children, c.Indices...)
	children = exprChildren(children, c.Dummy)

	return children
}

func (c *Comprehension) replaceChild(old, new Node) bool {
	replaced := setStmt(&c.Loops, old, new)
	replaced = setExpr(&c.Target, old, new) || replaced
	replaced = setExprList(c.Indices, old, new) || replaced

	if c.Dummy != nil && Node(c.Dummy) == old {
		if nv, ok := new.(*Variable); ok {
			c.Dummy = nv
			replaced = true
		}
	}

	return replaced
}

// LoopNest returns the desugared loop nest computing the comprehension.
func (c *Comprehension) LoopNest() Stmt {
	return c.Loops
}

// IsTerminal reports whether the comprehension prints as an atomic expression:
// a generator reduction is terminal, a collecting comprehension is not.
func (c *Comprehension) IsTerminal() bool {
	return c.Mode != CompCollect
}

func (c *Comprehension) stmtNode() {}
