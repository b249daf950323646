package codegen

import (
	"testing"

	"pyrite/ast"
	"pyrite/common"
	"pyrite/omp"
	"pyrite/types"

	"github.com/stretchr/testify/assert"
)

func printC(t *testing.T, m *ast.Module) string {
	t.Helper()

	g, rep := newTestGraph()
	out := Print(TargetC, m, g, rep)
	assert.Equal(t, 0, rep.FatalCount())
	return out
}

func printCFails(t *testing.T, m *ast.Module) {
	t.Helper()

	g, rep := newTestGraph()
	func() {
		defer rep.CatchUnit()
		Print(TargetC, m, g, rep)
		t.Fatal("unreachable after restriction")
	}()

	assert.Equal(t, 1, rep.FatalCount())
}

func TestCFunctionSignature(t *testing.T) {
	fn := funcOf("scale",
		&ast.Return{Exprs: []ast.Expr{&ast.BinaryExpr{
			ExprBase: ast.NewExprBase(types.Scalar(types.KindFloat), testSpan()),
			Op:       ast.OpMul,
			Lhs:      typedVar("v", types.Scalar(types.KindFloat)),
			Rhs:      typedVar("k", types.Scalar(types.KindFloat)),
		}}},
	)
	fn.Args = []*ast.FuncArg{
		{Name: "v", Type: types.Scalar(types.KindFloat)},
		{Name: "k", Type: types.Scalar(types.KindFloat)},
	}
	fn.Results = []*ast.Variable{typedVar("r", types.Scalar(types.KindFloat))}

	out := printC(t, moduleOf(fn))
	assert.Contains(t, out, "double scale(double v, double k)\n{\n    return v * k;\n}\n")
}

func TestCArrayArgsArePointers(t *testing.T) {
	fn := funcOf("first",
		&ast.Return{Exprs: []ast.Expr{&ast.IndexedElement{
			ExprBase: ast.NewExprBase(types.ScalarOf(types.KindInt, 8), testSpan()),
			Base:     typedVar("a", types.Array(types.KindInt, 1, types.OrderNone)),
			Indices:  []ast.Expr{typedLit("0", types.Scalar(types.KindInt))},
		}}},
	)
	fn.Args = []*ast.FuncArg{{Name: "a", Type: types.Array(types.KindInt, 1, types.OrderNone)}}
	fn.Results = []*ast.Variable{typedVar("r", types.ScalarOf(types.KindInt, 8))}

	out := printC(t, moduleOf(fn))
	assert.Contains(t, out, "int64_t first(int64_t *a)\n")
	assert.Contains(t, out, "return a[0];\n")
	assert.Contains(t, out, "#include <stdint.h>\n")
}

func TestCLocalDeclarationsHoisted(t *testing.T) {
	scope := common.NewScope(nil)
	scope.Declare(&common.Symbol{Name: "x", Type: types.Scalar(types.KindFloat), DefSpan: testSpan()})
	scope.Declare(&common.Symbol{Name: "n", Type: types.Scalar(types.KindInt), DefSpan: testSpan()})

	fn := funcOf("f",
		&ast.Assign{
			Lhs: typedVar("x", types.Scalar(types.KindFloat)),
			Rhs: typedLit("1.0", types.Scalar(types.KindFloat)),
		},
	)
	fn.Scope = scope

	out := printC(t, moduleOf(fn))
	assert.Contains(t, out, "int64_t n;\n")
	assert.Contains(t, out, "double x;\n")
	assert.Contains(t, out, "x = 1.0;\n")
}

func TestCRankTwoIsRestricted(t *testing.T) {
	fn := funcOf("f", &ast.Pass{})
	fn.Args = []*ast.FuncArg{{Name: "a", Type: types.Array(types.KindFloat, 2, types.OrderC)}}

	printCFails(t, moduleOf(fn))
}

func TestCStringIsRestricted(t *testing.T) {
	fn := funcOf("f",
		&ast.Assign{
			Lhs: typedVar("s", types.Scalar(types.KindString)),
			Rhs: typedLit("\"hi\"", types.Scalar(types.KindString)),
		},
	)
	fn.Scope = common.NewScope(nil)
	fn.Scope.Declare(&common.Symbol{Name: "s", Type: types.Scalar(types.KindString), DefSpan: testSpan()})

	printCFails(t, moduleOf(fn))
}

func TestCRangeLoopAndPragma(t *testing.T) {
	g, rep := newTestGraph()

	loop := &ast.For{
		Targets: []ast.Expr{typedVar("i", types.Scalar(types.KindInt))},
		Iterable: &ast.RangeExpr{
			ExprBase: ast.NewExprBase(types.Scalar(types.KindInt), testSpan()),
			Start:    typedLit("0", types.Scalar(types.KindInt)),
			Stop:     typedVar("n", types.Scalar(types.KindInt)),
		},
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{&ast.AugAssign{
			Op:  ast.OpAdd,
			Lhs: typedVar("s", types.Scalar(types.KindInt)),
			Rhs: typedVar("i", types.Scalar(types.KindInt)),
		}}},
	}

	d := omp.Parse("#$ omp parallel for reduction(+:s)", omp.V45, testSpan(), rep)
	g.Annotate(loop, d)

	out := Print(TargetC, moduleOf(funcOf("f", loop)), g, rep)

	assert.Equal(t, 0, rep.FatalCount())
	assert.Contains(t, out, "#pragma omp parallel for reduction(+:s)\nfor (i = 0; i < n; i++)\n")
	assert.Contains(t, out, "s += i;\n")
}

func TestCProgramEntryPoint(t *testing.T) {
	m := moduleOf()
	m.Program = &ast.Program{
		Body: &ast.CodeBlock{Stmts: []ast.Stmt{&ast.ExprStmt{Expr: &ast.FuncCall{
			ExprBase: ast.NewExprBase(types.Scalar(types.KindNothing), testSpan()),
			Name:     "f",
		}}}},
	}

	out := printC(t, m)
	assert.Contains(t, out, "int main()\n{\n    f();\n    return 0;\n}\n")
}

func TestCOffloadQualifiers(t *testing.T) {
	kernel := funcOf("launch", &ast.Pass{})
	kernel.Decorators = []*ast.Decorator{{Name: ast.DecorKernel}}

	device := funcOf("helper", &ast.Pass{})
	device.Decorators = []*ast.Decorator{{Name: ast.DecorDevice}}

	out := printC(t, moduleOf(kernel, device))

	assert.Contains(t, out, "__global__ void launch(void)\n")
	assert.Contains(t, out, "__device__ void helper(void)\n")
}

func TestCBoolLiteralSwap(t *testing.T) {
	out := printC(t, moduleOf(funcOf("f",
		&ast.Assign{
			Lhs: typedVar("ok", types.Scalar(types.KindBool)),
			Rhs: typedLit("True", types.Scalar(types.KindBool)),
		},
	)))

	assert.Contains(t, out, "ok = true;\n")
	assert.Contains(t, out, "#include <stdbool.h>\n")
}
