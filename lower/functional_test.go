package lower

import (
	"testing"

	"pyrite/ast"
	"pyrite/report"
	"pyrite/types"

	"github.com/stretchr/testify/assert"
)

func testSpan() *report.TextSpan {
	return report.SpanOfLine(0, 1)
}

func intVar(name string) *ast.Variable {
	return &ast.Variable{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Name:     ast.Symbol(name),
	}
}

func intLit(text string) *ast.Literal {
	return &ast.Literal{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Text:     text,
	}
}

func rangeTo(stop ast.Expr) *ast.RangeExpr {
	return &ast.RangeExpr{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Start:    intLit("0"),
		Stop:     stop,
	}
}

func forOver(index *ast.Variable, iterable ast.Expr, body ...ast.Stmt) *ast.For {
	return &ast.For{
		Targets:  []ast.Expr{index},
		Iterable: iterable,
		Body:     &ast.CodeBlock{Stmts: body},
	}
}

func newTestGraph() (*ast.Graph, *report.Reporter) {
	rep := report.NewReporter("", "unit.py", report.LogLevelSilent)
	return ast.NewGraph(ast.StageSemantic, rep), rep
}

// sum(x*x for i in range(n) for j in range(m)) as a two-level desugared nest.
func twoLevelSum(g *ast.Graph) (*ast.Comprehension, *ast.BinaryExpr) {
	i, j := intVar("i"), intVar("j")
	acc, x := intVar("acc"), intVar("x")

	elem := &ast.BinaryExpr{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Op:       ast.OpMul,
		Lhs:      x,
		Rhs:      x,
	}
	fold := &ast.BinaryExpr{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Op:       ast.OpAdd,
		Lhs:      acc,
		Rhs:      elem,
	}

	inner := forOver(j, rangeTo(intVar("m")), &ast.Assign{Lhs: acc, Rhs: fold})
	outer := forOver(i, rangeTo(intVar("n")), inner)

	comp := &ast.Comprehension{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Mode:     ast.CompSum,
		Loops:    outer,
		Target:   intVar("s"),
		Indices:  []ast.Expr{i, j},
		Dummy:    acc,
	}
	g.Register(comp)

	return comp, fold
}

func TestRecoverTwoLevelReduction(t *testing.T) {
	g, rep := newTestGraph()
	comp, fold := twoLevelSum(g)

	elem, pairs := RecoverComprehension(comp, g, rep)

	assert.Same(t, fold, elem.(*ast.BinaryExpr))

	assert.Len(t, pairs, 2)
	assert.Equal(t, ast.Symbol("i"), pairs[0].Index.(*ast.Variable).Name)
	assert.Equal(t, "n", string(pairs[0].Iterable.(*ast.RangeExpr).Stop.(*ast.Variable).Name))
	assert.Equal(t, ast.Symbol("j"), pairs[1].Index.(*ast.Variable).Name)
	assert.Equal(t, "m", string(pairs[1].Iterable.(*ast.RangeExpr).Stop.(*ast.Variable).Name))
}

func TestIterableIndexMismatchIsFatal(t *testing.T) {
	g, rep := newTestGraph()

	i, acc := intVar("i"), intVar("acc")
	nest := forOver(i, rangeTo(intVar("n")), &ast.Assign{Lhs: acc, Rhs: intLit("1")})

	comp := &ast.Comprehension{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Mode:     ast.CompSum,
		Loops:    nest,
		Target:   intVar("s"),
		Indices:  []ast.Expr{i, intVar("j")}, // one more index than loops
		Dummy:    acc,
	}
	g.Register(comp)

	func() {
		defer rep.CatchUnit()
		RecoverComprehension(comp, g, rep)
		t.Fatal("unreachable after shape mismatch")
	}()

	assert.Equal(t, 1, rep.FatalCount())
}

func TestNestedComprehensionInlinedIntoTerminal(t *testing.T) {
	g, rep := newTestGraph()

	// tmp = sum(...); elem = tmp * 2  -- the nested sum must be substituted
	// for the temporary inside the terminal expression
	innerComp, _ := twoLevelSum(g)
	tmp := innerComp.Target.(*ast.Variable)

	k := intVar("k")
	scaled := &ast.BinaryExpr{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Op:       ast.OpMul,
		Lhs:      tmp,
		Rhs:      intLit("2"),
	}
	terminal := &ast.Assign{Lhs: intVar("elem"), Rhs: scaled}

	nest := forOver(k, rangeTo(intVar("p")), innerComp, terminal)

	outer := &ast.Comprehension{
		ExprBase: ast.NewExprBase(types.Array(types.KindInt, 1, types.OrderNone), testSpan()),
		Mode:     ast.CompCollect,
		Loops:    nest,
		Target:   intVar("out"),
		Indices:  []ast.Expr{k},
		Dummy:    nil,
	}
	g.Register(outer)

	elem, pairs := RecoverComprehension(outer, g, rep)

	// the nested sum stands in for the temporary inside the element
	// expression and keeps its own clauses
	assert.Same(t, scaled, elem.(*ast.BinaryExpr))
	assert.Same(t, innerComp, scaled.Lhs.(*ast.Comprehension))
	assert.Len(t, pairs, 1)
	assert.Equal(t, ast.Symbol("k"), pairs[0].Index.(*ast.Variable).Name)
	assert.Equal(t, 0, rep.FatalCount())

	// inlining rebinds only the outside reference: the nested comprehension
	// keeps its own target slot, so the graph stays acyclic and the whole
	// tree can still be walked
	assert.Same(t, tmp, innerComp.Target.(*ast.Variable))
	for _, user := range g.Users(innerComp) {
		assert.NotSame(t, innerComp, user)
	}
	g.Register(outer)

	// a second recovery over the same unit must also survive inlining
	secondComp, _ := twoLevelSum(g)
	secondTmp := secondComp.Target.(*ast.Variable)
	use := &ast.Assign{Lhs: intVar("r"), Rhs: secondComp.Target}
	nest2 := forOver(intVar("q"), rangeTo(intVar("w")), secondComp, use)
	outer2 := &ast.Comprehension{
		ExprBase: ast.NewExprBase(types.Array(types.KindInt, 1, types.OrderNone), testSpan()),
		Mode:     ast.CompCollect,
		Loops:    nest2,
		Target:   intVar("out2"),
		Indices:  []ast.Expr{nest2.Targets[0]},
		Dummy:    nil,
	}
	g.Register(outer2)

	RecoverComprehension(outer2, g, rep)
	assert.Same(t, secondTmp, secondComp.Target.(*ast.Variable))
	g.Register(outer2)
	assert.Equal(t, 0, rep.FatalCount())
}

func TestUnrecoverableStatementIsFatal(t *testing.T) {
	g, rep := newTestGraph()

	i, acc := intVar("i"), intVar("acc")
	stray := &ast.Assign{Lhs: intVar("unrelated"), Rhs: intLit("0")}
	terminal := &ast.Assign{Lhs: acc, Rhs: intLit("1")}
	nest := forOver(i, rangeTo(intVar("n")), terminal, stray)

	comp := &ast.Comprehension{
		ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
		Mode:     ast.CompSum,
		Loops:    nest,
		Target:   intVar("s"),
		Indices:  []ast.Expr{i},
		Dummy:    acc,
	}
	g.Register(comp)

	func() {
		defer rep.CatchUnit()
		RecoverComprehension(comp, g, rep)
		t.Fatal("unreachable after ambiguous nest")
	}()

	assert.Equal(t, 1, rep.FatalCount())
}
