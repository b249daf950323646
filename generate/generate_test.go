package generate

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

func newTestGenerator() (*Generator, *report.Reporter) {
	rep := report.NewReporter("", "unit.py", report.LogLevelSilent)
	return NewGenerator(ast.NewGraph(ast.StageSemantic, rep), rep), rep
}

func typedVar(name string, typ types.Descriptor) *ast.Variable {
	return &ast.Variable{ExprBase: ast.NewExprBase(typ, testSpan()), Name: ast.Symbol(name)}
}

func typedLit(text string, typ types.Descriptor) *ast.Literal {
	return &ast.Literal{ExprBase: ast.NewExprBase(typ, testSpan()), Text: text}
}

func TestGenerateScalarFunction(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "twice",
		Args: []*ast.FuncArg{{Name: "x", Type: types.Scalar(types.KindInt)}},
		Results: []*ast.Variable{
			typedVar("r", types.Scalar(types.KindInt)),
		},
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{
			&ast.Return{Exprs: []ast.Expr{&ast.BinaryExpr{
				ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
				Op:       ast.OpMul,
				Lhs:      typedVar("x", types.Scalar(types.KindInt)),
				Rhs:      typedLit("2", types.Scalar(types.KindInt)),
			}}},
		}},
	}

	g, rep := newTestGenerator()
	out := g.Generate(&ast.Module{Name: "m", Funcs: []*ast.FuncDef{fn}}).String()

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "define i64 @twice(i64 %x)")
	assert.Contains(t, out, "mul i64")
	assert.Contains(t, out, "ret i64")
}

func TestGenerateProgramEntryPoint(t *testing.T) {
	prog := &ast.Program{Body: &ast.CodeBlock{Stmts: []ast.Stmt{&ast.Pass{}}}}

	g, rep := newTestGenerator()
	out := g.Generate(&ast.Module{Name: "m", Program: prog}).String()

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "define i32 @main()")
	assert.Contains(t, out, "ret i32 0")
}

func TestGenerateForLoop(t *testing.T) {
	i := types.Scalar(types.KindInt)
	fn := &ast.FuncDef{
		Name: "count",
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{
			&ast.For{
				Targets: []ast.Expr{typedVar("i", i)},
				Iterable: &ast.RangeExpr{
					ExprBase: ast.NewExprBase(i, testSpan()),
					Start:    typedLit("0", i),
					Stop:     typedLit("10", i),
				},
				Body: &ast.CodeBlock{Stmts: []ast.Stmt{&ast.Pass{}}},
			},
		}},
	}

	g, rep := newTestGenerator()
	out := g.Generate(&ast.Module{Name: "m", Funcs: []*ast.FuncDef{fn}}).String()

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "icmp slt i64")
	assert.Contains(t, out, "add i64")
	assert.Contains(t, out, "br i1")
}

func TestGenerateCastWidensInt(t *testing.T) {
	i32 := types.ScalarOf(types.KindInt, 4)
	f64 := types.Scalar(types.KindFloat)

	fn := &ast.FuncDef{
		Name:    "widen",
		Args:    []*ast.FuncArg{{Name: "x", Type: i32}},
		Results: []*ast.Variable{typedVar("r", f64)},
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{
			&ast.Return{Exprs: []ast.Expr{&ast.CastExpr{
				ExprBase: ast.NewExprBase(f64, testSpan()),
				Arg:      typedVar("x", i32),
			}}},
		}},
	}

	g, rep := newTestGenerator()
	out := g.Generate(&ast.Module{Name: "m", Funcs: []*ast.FuncDef{fn}}).String()

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "define double @widen(i32 %x)")
	assert.Contains(t, out, "sitofp i32")
}

func TestGenerateRuntimeCall(t *testing.T) {
	f64 := types.Scalar(types.KindFloat)
	fn := &ast.FuncDef{
		Name:    "root",
		Args:    []*ast.FuncArg{{Name: "x", Type: f64}},
		Results: []*ast.Variable{typedVar("r", f64)},
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{
			&ast.Return{Exprs: []ast.Expr{&ast.IntrinsicCall{
				ExprBase: ast.NewExprBase(f64, testSpan()),
				Module:   "math",
				Name:     "sqrt",
				Args:     []ast.Expr{typedVar("x", f64)},
			}}},
		}},
	}

	g, rep := newTestGenerator()
	out := g.Generate(&ast.Module{Name: "m", Funcs: []*ast.FuncDef{fn}}).String()

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "declare double @sqrt(double")
	assert.Contains(t, out, "call double @sqrt")
}

func TestGenerateArrayArgIsRestricted(t *testing.T) {
	fn := &ast.FuncDef{
		Name: "f",
		Args: []*ast.FuncArg{{Name: "a", Type: types.Array(types.KindFloat, 1, types.OrderNone)}},
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{&ast.Pass{}}},
	}

	g, rep := newTestGenerator()
	func() {
		defer rep.CatchUnit()
		g.Generate(&ast.Module{Name: "m", Funcs: []*ast.FuncDef{fn}})
		t.Fatal("unreachable after restriction")
	}()

	assert.Equal(t, 1, rep.FatalCount())
}
