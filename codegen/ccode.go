package codegen

import (
	"strconv"
	"strings"

	"pyrite/ast"
	"pyrite/common"
	"pyrite/omp"
	"pyrite/report"
	"pyrite/types"
	"pyrite/util"
)

// cKindNames maps element kind and precision to the C spelling of the type.
// Default precision resolves to the widest native width of the kind.
var cKindNames = map[types.ElemKind]map[int]string{
	types.KindBool: {types.DefaultPrecision: "bool"},
	types.KindInt: {
		types.DefaultPrecision: "int64_t",
		1:                      "int8_t",
		2:                      "int16_t",
		4:                      "int32_t",
		8:                      "int64_t",
	},
	types.KindFloat: {
		types.DefaultPrecision: "double",
		4:                      "float",
		8:                      "double",
	},
	types.KindComplex: {
		types.DefaultPrecision: "double complex",
		8:                      "float complex",
		16:                     "double complex",
	},
}

// cKindHeaders maps element kinds to the header their C spelling needs.
var cKindHeaders = map[types.ElemKind]string{
	types.KindBool:    "stdbool.h",
	types.KindInt:     "stdint.h",
	types.KindComplex: "complex.h",
}

// cIntrinsic is the C rendering of a library entry point.
type cIntrinsic struct {
	name   string
	header string
}

// cIntrinsics maps canonical "module.name" entry points to their C renderings.
// An elemental entry point applied to an array argument is expanded into an
// explicit loop before this table is consulted.
var cIntrinsics = map[string]cIntrinsic{
	"math.sqrt":  {"sqrt", "math.h"},
	"math.fabs":  {"fabs", "math.h"},
	"math.abs":   {"fabs", "math.h"},
	"math.exp":   {"exp", "math.h"},
	"math.log":   {"log", "math.h"},
	"math.sin":   {"sin", "math.h"},
	"math.cos":   {"cos", "math.h"},
	"math.tan":   {"tan", "math.h"},
	"math.floor": {"floor", "math.h"},
	"math.ceil":  {"ceil", "math.h"},
	"math.pow":   {"pow", "math.h"},

	"numpy.sqrt":  {"sqrt", "math.h"},
	"numpy.abs":   {"fabs", "math.h"},
	"numpy.exp":   {"exp", "math.h"},
	"numpy.log":   {"log", "math.h"},
	"numpy.sin":   {"sin", "math.h"},
	"numpy.cos":   {"cos", "math.h"},
	"numpy.tan":   {"tan", "math.h"},
	"numpy.floor": {"floor", "math.h"},

	"builtins.min": {"fmin", "math.h"},
	"builtins.max": {"fmax", "math.h"},

	"builtins.print": {"printf", "stdio.h"},
}

// cBinOps maps binary operators to their C lexemes.  Power and floor division
// have no C operator and are rendered as calls instead.
var cBinOps = map[ast.OpKind]string{
	ast.OpAdd: " + ", ast.OpSub: " - ", ast.OpMul: " * ", ast.OpDiv: " / ",
	ast.OpMod: " % ",
	ast.OpEq:  " == ", ast.OpNe: " != ", ast.OpLt: " < ", ast.OpLe: " <= ",
	ast.OpGt: " > ", ast.OpGe: " >= ", ast.OpAnd: " && ", ast.OpOr: " || ",
	ast.OpBitAnd: " & ", ast.OpBitOr: " | ", ast.OpBitXor: " ^ ",
	ast.OpLShift: " << ", ast.OpRShift: " >> ",
}

// cUnaryOps maps unary operators to their C lexemes.
var cUnaryOps = map[ast.OpKind]string{
	ast.OpNot: "!", ast.OpNeg: "-", ast.OpPos: "+", ast.OpInvert: "~",
}

// cLiteralSwap maps surface literal spellings with no C equivalent to their C
// spellings.
var cLiteralSwap = map[string]string{
	"True":  "true",
	"False": "false",
}

// -----------------------------------------------------------------------------

// cPrinter renders a node graph as C source text.  The import table of the
// shared printer holds the synthesized includes, keyed by header name.
type cPrinter struct {
	printer
}

func newCPrinter(g *ast.Graph, rep *report.Reporter) *cPrinter {
	return &cPrinter{printer: newPrinter(g, rep)}
}

// include records that the output needs the given header.
func (p *cPrinter) include(header string) {
	p.registerImport(header, header, "")
}

// emitIncludes renders the includes recorded while printing.
func (p *cPrinter) emitIncludes() string {
	var sb strings.Builder
	for _, header := range p.importOrder {
		sb.WriteString("#include <" + header + ">\n")
	}

	return sb.String()
}

// restrict reports the fatal restriction diagnostic for a construct this
// backend cannot express.
func (p *cPrinter) restrict(span *report.TextSpan, format string, args ...interface{}) {
	p.rep.Fatalf(span, "restriction: "+format, args...)
}

// -----------------------------------------------------------------------------

// cType resolves the C spelling of a descriptor, recording the headers it
// needs.  Strings and arrays of rank above one have no C rendering.
func (p *cPrinter) cType(typ types.Descriptor, span *report.TextSpan) string {
	if typ.Rank > 1 {
		p.restrict(span, "arrays of rank %d cannot be rendered as C", typ.Rank)
	}

	names, ok := cKindNames[typ.Kind]
	if !ok {
		p.restrict(span, "`%s` values cannot be rendered as C", typ.Kind.Repr())
	}

	name, ok := names[typ.Precision]
	if !ok {
		p.restrict(span, "no C type for `%s`", typ.Repr())
	}

	if header, ok := cKindHeaders[typ.Kind]; ok {
		p.include(header)
	}

	if typ.Rank == 1 {
		return name + " *"
	}

	return name
}

// -----------------------------------------------------------------------------

// printModule renders a whole module.  Interfaces render as every one of their
// concrete instantiations: C has no overloading, so the instantiation names
// are the exported names.
func (p *cPrinter) printModule(m *ast.Module) string {
	p.enterScope(m.Scope)
	defer p.exitScope()

	var body strings.Builder
	for _, fn := range m.Funcs {
		body.WriteString(p.printFuncDef(fn))
	}

	if m.Program != nil {
		body.WriteString(p.printProgram(m.Program))
	}

	return p.emitIncludes() + "\n" + body.String()
}

// printProgram renders the executable section as the entry point.
func (p *cPrinter) printProgram(prog *ast.Program) string {
	p.enterScope(prog.Scope)
	defer p.exitScope()

	body := p.declarations(prog.Scope, nil) + p.printBlock(prog.Body) + "return 0;\n"
	return "int main()\n{\n" + p.indentBlock(body) + "}\n"
}

// printFuncDef renders a function definition with its local declarations
// hoisted to the top of the body.
func (p *cPrinter) printFuncDef(fn *ast.FuncDef) string {
	p.enterScope(fn.Scope)
	defer p.exitScope()

	retType := "void"
	switch len(fn.Results) {
	case 0:
	case 1:
		retType = p.cType(fn.Results[0].Type(), fn.Span())
	default:
		p.restrict(fn.Span(), "function `%s` returns %d values; C functions return at most one",
			fn.Name, len(fn.Results))
	}

	argNames := make(map[string]struct{}, len(fn.Args))
	args := make([]string, len(fn.Args))
	for i, arg := range fn.Args {
		argNames[string(arg.Name)] = struct{}{}

		typ := p.cType(arg.Type, fn.Span())
		sep := " "
		if strings.HasSuffix(typ, "*") {
			sep = ""
		}

		args[i] = typ + sep + string(arg.Name)
	}
	if len(args) == 0 {
		args = []string{"void"}
	}

	qualifier := ""
	if fn.HasDecorator(ast.DecorKernel) {
		qualifier = "__global__ "
	} else if fn.HasDecorator(ast.DecorDevice) {
		qualifier = "__device__ "
	}

	body := p.declarations(fn.Scope, argNames) + p.printBlock(fn.Body)

	return qualifier + retType + " " + string(fn.Name) +
		"(" + strings.Join(args, ", ") + ")\n{\n" + p.indentBlock(body) + "}\n\n"
}

// declarations renders the declaration block for the value symbols of a scope,
// skipping the names already bound as formal arguments.  C wants every local
// declared before the first statement.
func (p *cPrinter) declarations(scope *common.Scope, skip map[string]struct{}) string {
	if scope == nil {
		return ""
	}

	var sb strings.Builder
	for _, sym := range scope.Symbols() {
		if sym.DefKind != common.DefKindValue {
			continue
		}
		if _, ok := skip[sym.Name]; ok {
			continue
		}

		typ := p.cType(sym.Type, sym.DefSpan)
		sep := " "
		if strings.HasSuffix(typ, "*") {
			sep = ""
		}

		sb.WriteString(typ + sep + sym.Name + ";\n")
	}

	out := sb.String()
	if out != "" {
		out += "\n"
	}

	return out
}

// -----------------------------------------------------------------------------

// printBlock renders a code block.  An empty block renders as nothing: C
// braces carry the structure.
func (p *cPrinter) printBlock(block *ast.CodeBlock) string {
	if block == nil {
		return ""
	}

	return strings.Join(util.Map(block.Stmts, p.printStmt), "")
}

// printStmt renders one statement together with the directives annotating it.
// Opening directives render as pragmas over a braced region when the
// directive form requires an explicit end.
func (p *cPrinter) printStmt(s ast.Stmt) string {
	var pragmas []string
	braced := false
	for _, a := range p.graph.AnnotationsOf(s) {
		d, ok := a.(*omp.Directive)
		if !ok || d.IsEnd {
			continue
		}

		pragmas = append(pragmas, "#pragma omp "+d.AnnotationText()+"\n")
		if !d.NeedsLoop() {
			braced = true
		}
	}

	inner := p.printStmtInner(s)
	if len(pragmas) == 0 {
		return inner
	}

	if braced {
		inner = "{\n" + p.indentBlock(inner) + "}\n"
	}

	return strings.Join(pragmas, "") + inner
}

func (p *cPrinter) printStmtInner(s ast.Stmt) string {
	switch v := s.(type) {
	case *ast.Assign:
		return p.printAssign(v)

	case *ast.AugAssign:
		op, ok := cBinOps[v.Op]
		if !ok {
			p.restrict(v.Span(), "operator cannot be rendered as a C compound assignment")
		}
		return p.printExpr(v.Lhs) + strings.TrimRight(op, " ") + "= " + p.printExpr(v.Rhs) + ";\n"

	case *ast.For:
		return p.printFor(v)

	case *ast.While:
		cond := p.printExpr(v.Cond)
		p.enterScope(nil)
		defer p.exitScope()

		return "while (" + cond + ")\n{\n" + p.indentBlock(p.printBlock(v.Body)) + "}\n"

	case *ast.If:
		var sb strings.Builder
		for i, sec := range v.Sections {
			switch {
			case i == 0:
				sb.WriteString("if (" + p.printExpr(sec.Cond) + ")\n")
			case sec.Cond == nil:
				sb.WriteString("else\n")
			default:
				sb.WriteString("else if (" + p.printExpr(sec.Cond) + ")\n")
			}

			sb.WriteString("{\n" + p.indentBlock(p.printBlock(sec.Body)) + "}\n")
		}
		return sb.String()

	case *ast.Return:
		switch len(v.Exprs) {
		case 0:
			return "return;\n"
		case 1:
			return "return " + p.printExpr(v.Exprs[0]) + ";\n"
		default:
			p.restrict(v.Span(), "C functions return at most one value")
			return ""
		}

	case *ast.CodeBlock:
		return p.printBlock(v)

	case *ast.Pass:
		return ""

	case *ast.Break:
		return "break;\n"

	case *ast.Continue:
		return "continue;\n"

	case *ast.Comment:
		return "// " + v.Text + "\n"

	case *ast.ExprStmt:
		return p.printExpr(v.Expr) + ";\n"

	case *ast.Comprehension:
		return p.printComprehension(v)

	default:
		p.restrict(s.Span(), "statement cannot be rendered as C")
		return ""
	}
}

// printFor renders a loop.  Only single-target loops over an explicit integer
// range have a C rendering.
func (p *cPrinter) printFor(f *ast.For) string {
	rng, ok := f.Iterable.(*ast.RangeExpr)
	if !ok || len(f.Targets) != 1 {
		p.restrict(f.Span(), "only loops over an integer range can be rendered as C")
		return ""
	}

	p.enterScope(nil)
	defer p.exitScope()

	target := p.printExpr(f.Targets[0])
	header := "for (" + target + " = " + p.printExpr(rng.Start) + "; " +
		target + " < " + p.printExpr(rng.Stop) + "; "
	if rng.Step == nil {
		header += target + "++)"
	} else {
		header += target + " += " + p.printExpr(rng.Step) + ")"
	}

	return header + "\n{\n" + p.indentBlock(p.printBlock(f.Body)) + "}\n"
}

// printAssign renders an assignment, expanding an elemental library call over
// an array argument into an explicit per-element loop.
func (p *cPrinter) printAssign(a *ast.Assign) string {
	if call, ok := a.Rhs.(*ast.IntrinsicCall); ok && call.Elemental &&
		len(call.Args) == 1 && call.Args[0].Type().Rank > 0 {
		return p.printElementalLoop(a, call)
	}

	return p.printExpr(a.Lhs) + " = " + p.printExpr(a.Rhs) + ";\n"
}

// printElementalLoop expands `lhs = f(arr)` with f elemental into a loop that
// applies f to every element.
func (p *cPrinter) printElementalLoop(a *ast.Assign, call *ast.IntrinsicCall) string {
	arg := call.Args[0]
	shape := arg.Shape()
	if len(shape) == 0 {
		p.restrict(call.Span(), "elemental call on an array of unknown extent cannot be rendered as C")
	}

	p.enterScope(nil)
	defer p.exitScope()

	idx := p.freshName("i")
	name := p.intrinsicName(call)
	body := p.printExpr(a.Lhs) + "[" + idx + "] = " +
		name + "(" + p.printExpr(arg) + "[" + idx + "]);\n"

	p.include("stdint.h")
	return "for (int64_t " + idx + " = 0; " + idx + " < " + p.printExpr(shape[0]) +
		"; " + idx + "++)\n{\n" + p.indentBlock(body) + "}\n"
}

// -----------------------------------------------------------------------------

// printComprehension renders a reduction comprehension as an accumulator
// initialization followed by its lowered loop nest.  Collecting comprehensions
// would need dynamic allocation and have no C rendering.
func (p *cPrinter) printComprehension(c *ast.Comprehension) string {
	if !c.IsTerminal() {
		p.restrict(c.Span(), "collecting comprehension cannot be rendered as C")
	}

	init, ok := p.reductionInit(c)
	if !ok {
		p.restrict(c.Span(), "comprehension mode `%s` cannot be rendered as C", c.Mode.Repr())
	}

	lhs := p.printExpr(c.Target)
	return lhs + " = " + init + ";\n" + p.printStmt(c.Loops)
}

// reductionInit resolves the identity value the accumulator of a reduction
// starts from.
func (p *cPrinter) reductionInit(c *ast.Comprehension) (string, bool) {
	kind := c.Target.Type().Kind

	switch c.Mode {
	case ast.CompSum:
		if kind == types.KindFloat || kind == types.KindComplex {
			return "0.0", true
		}
		return "0", true

	case ast.CompMax:
		if kind == types.KindFloat {
			p.include("math.h")
			return "-HUGE_VAL", true
		}
		p.include("stdint.h")
		return "INT64_MIN", true

	case ast.CompMin:
		if kind == types.KindFloat {
			p.include("math.h")
			return "HUGE_VAL", true
		}
		p.include("stdint.h")
		return "INT64_MAX", true
	}

	return "", false
}

// -----------------------------------------------------------------------------

func (p *cPrinter) printExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		if swapped, ok := cLiteralSwap[v.Text]; ok {
			p.include("stdbool.h")
			return swapped
		}
		return v.Text

	case *ast.Variable:
		return string(v.Name)

	case *ast.IndexedElement:
		return p.printIndexed(v)

	case *ast.RangeExpr:
		// A bare range only appears as a loop iterable; printFor consumes it
		// before expression dispatch can see it.
		p.restrict(v.Span(), "range expression outside a loop cannot be rendered as C")
		return ""

	case *ast.UnaryExpr:
		op, ok := cUnaryOps[v.Op]
		if !ok {
			p.restrict(v.Span(), "operator cannot be rendered as C")
		}
		return op + p.printExpr(v.Operand)

	case *ast.BinaryExpr:
		return p.printBinary(v)

	case *ast.ParenExpr:
		return "(" + p.printExpr(v.Inner) + ")"

	case *ast.TernaryExpr:
		return p.printExpr(v.Cond) + " ? " + p.printExpr(v.TrueVal) +
			" : " + p.printExpr(v.FalseVal)

	case *ast.FuncCall:
		return string(v.Name) + "(" + strings.Join(util.Map(v.Args, p.printExpr), ", ") + ")"

	case *ast.IntrinsicCall:
		name := p.intrinsicName(v)
		return name + "(" + strings.Join(util.Map(v.Args, p.printExpr), ", ") + ")"

	case *ast.ArraySize:
		return p.printArraySize(v)

	case *ast.CastExpr:
		return "(" + p.cType(v.Type(), v.Span()) + ")(" + p.printExpr(v.Arg) + ")"

	default:
		p.restrict(e.Span(), "expression cannot be rendered as C")
		return ""
	}
}

// printIndexed renders a subscript.  Slices have no C rendering: an array is a
// bare pointer with no stride bookkeeping.
func (p *cPrinter) printIndexed(ie *ast.IndexedElement) string {
	if ie.Base.Type().Rank > 1 || len(ie.Indices) != 1 {
		p.restrict(ie.Span(), "arrays of rank above one cannot be rendered as C")
	}

	if _, ok := ie.Indices[0].(*ast.SliceExpr); ok {
		p.restrict(ie.Span(), "array slices cannot be rendered as C")
	}

	return p.printExpr(ie.Base) + "[" + p.printExpr(ie.Indices[0]) + "]"
}

// printBinary renders a binary operation.  Power lowers to a math call; floor
// division of integers is native truncation.
func (p *cPrinter) printBinary(b *ast.BinaryExpr) string {
	switch b.Op {
	case ast.OpPow:
		p.include("math.h")
		return "pow(" + p.printExpr(b.Lhs) + ", " + p.printExpr(b.Rhs) + ")"

	case ast.OpFloorDiv:
		if b.Type().Kind == types.KindInt {
			return p.printExpr(b.Lhs) + " / " + p.printExpr(b.Rhs)
		}
		p.include("math.h")
		return "floor(" + p.printExpr(b.Lhs) + " / " + p.printExpr(b.Rhs) + ")"

	default:
		op, ok := cBinOps[b.Op]
		if !ok {
			p.restrict(b.Span(), "operator cannot be rendered as C")
		}
		return p.printExpr(b.Lhs) + op + p.printExpr(b.Rhs)
	}
}

// intrinsicName resolves a library entry point against the C intrinsic table,
// recording the header it needs.
func (p *cPrinter) intrinsicName(call *ast.IntrinsicCall) string {
	intrin, ok := cIntrinsics[call.Module+"."+call.Name]
	if !ok {
		p.restrict(call.Span(), "library function `%s.%s` cannot be rendered as C",
			call.Module, call.Name)
	}

	p.include(intrin.header)
	return intrin.name
}

// printArraySize renders a dimension extent by resolving it against the
// argument's compile-time shape.  A bare pointer carries no extent at runtime.
func (p *cPrinter) printArraySize(as *ast.ArraySize) string {
	shape := as.Arg.Shape()

	lit, ok := as.Dim.(*ast.Literal)
	if !ok {
		p.restrict(as.Span(), "array extent along a non-constant dimension cannot be rendered as C")
		return ""
	}

	dim, err := strconv.Atoi(lit.Text)
	if err != nil || dim < 0 || dim >= len(shape) {
		p.restrict(as.Span(), "array extent along dimension %s is not known", lit.Text)
		return ""
	}

	return p.printExpr(shape[dim])
}
