package ast

// Assign is a single assignment.  An alias assignment rebinds a name to an
// existing array without copying.
type Assign struct {
	StmtBase

	Lhs, Rhs Expr

	// Whether this assignment aliases rather than copies.
	Alias bool
}

func (a *Assign) Children() []Node {
	return exprChildren(nil, a.Lhs, a.Rhs)
}

func (a *Assign) replaceChild(old, new Node) bool {
	replaced := setExpr(&a.Lhs, old, new)
	return setExpr(&a.Rhs, old, new) || replaced
}

// AugAssign is an augmented assignment such as `x += y`.
type AugAssign struct {
	StmtBase

	Op       OpKind
	Lhs, Rhs Expr
}

func (a *AugAssign) Children() []Node {
	return exprChildren(nil, a.Lhs, a.Rhs)
}

func (a *AugAssign) replaceChild(old, new Node) bool {
	replaced := setExpr(&a.Lhs, old, new)
	return setExpr(&a.Rhs, old, new) || replaced
}

// -----------------------------------------------------------------------------

// For is a for loop over an iterable.
type For struct {
	StmtBase

	Targets  []Expr
	Iterable Expr
	Body     *CodeBlock
}

func (f *For) Children() []Node {
	children := exprChildren(nil, f.Targets...)
	children = exprChildren(children, f.Iterable)
	if f.Body != nil {
		children = append(children, f.Body)
	}

	return children
}

func (f *For) replaceChild(old, new Node) bool {
	replaced := setExprList(f.Targets, old, new)
	replaced = setExpr(&f.Iterable, old, new) || replaced
	return setBlock(&f.Body, old, new) || replaced
}

// While is a while loop.
type While struct {
	StmtBase

	Cond Expr
	Body *CodeBlock
}

func (w *While) Children() []Node {
	children := exprChildren(nil, w.Cond)
	if w.Body != nil {
		children = append(children, w.Body)
	}

	return children
}

func (w *While) replaceChild(old, new Node) bool {
	replaced := setExpr(&w.Cond, old, new)
	return setBlock(&w.Body, old, new) || replaced
}

// -----------------------------------------------------------------------------

// IfSection is one conditional section of an if statement.  The final section
// of an if statement may have a nil condition: it is the else section.
type IfSection struct {
	Cond Expr
	Body *CodeBlock
}

// If is an if/elif/else statement.
type If struct {
	StmtBase

	Sections []IfSection
}

func (i *If) Children() []Node {
	var children []Node
	for _, sec := range i.Sections {
		children = exprChildren(children, sec.Cond)
		if sec.Body != nil {
			children = append(children, sec.Body)
		}
	}

	return children
}

func (i *If) replaceChild(old, new Node) bool {
	replaced := false
	for n := range i.Sections {
		replaced = setExpr(&i.Sections[n].Cond, old, new) || replaced
		replaced = setBlock(&i.Sections[n].Body, old, new) || replaced
	}

	return replaced
}

// -----------------------------------------------------------------------------

// Return is a return statement.
type Return struct {
	StmtBase

	Exprs []Expr
}

func (r *Return) Children() []Node {
	return exprChildren(nil, r.Exprs...)
}

func (r *Return) replaceChild(old, new Node) bool {
	return setExprList(r.Exprs, old, new)
}

// CodeBlock is an ordered sequence of statements.
type CodeBlock struct {
	StmtBase

	Stmts []Stmt
}

func (cb *CodeBlock) Children() []Node {
	children := make([]Node, 0, len(cb.Stmts))
	for _, s := range cb.Stmts {
		if s != nil {
			children = append(children, s)
		}
	}

	return children
}

func (cb *CodeBlock) replaceChild(old, new Node) bool {
	return setStmtList(cb.Stmts, old, new)
}

// -----------------------------------------------------------------------------

// Pass is a no-op statement.
type Pass struct {
	StmtBase
}

func (p *Pass) Children() []Node            { return nil }
func (p *Pass) replaceChild(_, _ Node) bool { return false }

// Break is a loop break statement.
type Break struct {
	StmtBase
}

func (b *Break) Children() []Node            { return nil }
func (b *Break) replaceChild(_, _ Node) bool { return false }

// Continue is a loop continue statement.
type Continue struct {
	StmtBase
}

func (c *Continue) Children() []Node            { return nil }
func (c *Continue) replaceChild(_, _ Node) bool { return false }

// Comment is an ordinary source comment carried through printing.
type Comment struct {
	StmtBase

	Text string
}

func (c *Comment) Children() []Node            { return nil }
func (c *Comment) replaceChild(_, _ Node) bool { return false }

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	StmtBase

	Expr Expr
}

func (es *ExprStmt) Children() []Node {
	return exprChildren(nil, es.Expr)
}

func (es *ExprStmt) replaceChild(old, new Node) bool {
	return setExpr(&es.Expr, old, new)
}
