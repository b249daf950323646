package codegen

import (
	"strings"

	"pyrite/ast"
	"pyrite/lower"
	"pyrite/omp"
	"pyrite/report"
	"pyrite/types"
	"pyrite/util"
)

// pyTargetSwap maps canonical internal entry-point names to the names the
// numpy ecosystem knows them by.  The swap is applied at import-emission time
// only: the AST never stores backend-specific names.
var pyTargetSwap = map[string]map[string]string{
	"numpy": {
		"double":     "float64",
		"prod":       "product",
		"empty_like": "empty",
		"zeros_like": "zeros",
		"ones_like":  "ones",
		"max":        "amax",
		"min":        "amin",
		"T":          "transpose",
		"full_like":  "full",
		"absolute":   "abs",
	},
	"numpy.random": {"random": "rand"},
}

// pySourceSwap maps canonical internal module names to the source modules the
// Python target imports them from.
var pySourceSwap = map[string]string{
	"omp_lib": "pyrite.stdlib.openmp",
}

// pyCastNames maps element kind and precision to the numpy constructor a
// non-default-precision value must be wrapped in.  Default precision never
// appears here: it prints with no width suffix at all.
var pyCastNames = map[types.ElemKind]map[int]string{
	types.KindInt:     {1: "int8", 2: "int16", 4: "int32", 8: "int64"},
	types.KindFloat:   {4: "float32", 8: "float64"},
	types.KindComplex: {8: "complex64", 16: "complex128"},
}

// pyBuiltinNames maps element kinds to the backend-native constructor names.
var pyBuiltinNames = map[types.ElemKind]string{
	types.KindBool:    "bool",
	types.KindInt:     "int",
	types.KindFloat:   "float",
	types.KindComplex: "complex",
	types.KindString:  "str",
}

// pyBinOps maps binary operators to their Python lexemes.
var pyBinOps = map[ast.OpKind]string{
	ast.OpAdd: " + ", ast.OpSub: " - ", ast.OpMul: " * ", ast.OpDiv: " / ",
	ast.OpFloorDiv: " // ", ast.OpMod: " % ", ast.OpPow: " ** ",
	ast.OpEq: " == ", ast.OpNe: " != ", ast.OpLt: " < ", ast.OpLe: " <= ",
	ast.OpGt: " > ", ast.OpGe: " >= ", ast.OpAnd: " and ", ast.OpOr: " or ",
	ast.OpBitAnd: " & ", ast.OpBitOr: " | ", ast.OpBitXor: " ^ ",
	ast.OpLShift: " << ", ast.OpRShift: " >> ",
	ast.OpIs: " is ", ast.OpIsNot: " is not ",
}

// pyUnaryOps maps unary operators to their Python lexemes.
var pyUnaryOps = map[ast.OpKind]string{
	ast.OpNot: "not ", ast.OpNeg: "-", ast.OpPos: "+", ast.OpInvert: "~",
}

// pyDecoratorModule is the module the decorator vocabulary is imported from.
const pyDecoratorModule = "pyrite.decorators"

// -----------------------------------------------------------------------------

// pyPrinter renders a node graph back to Python source text.
type pyPrinter struct {
	printer
}

func newPyPrinter(g *ast.Graph, rep *report.Reporter) *pyPrinter {
	return &pyPrinter{printer: newPrinter(g, rep)}
}

// external returns the name to reference a library entry point by, applying
// the target name-swap, synthesizing the import on first use, and threading
// the chosen alias through every later reference.
func (p *pyPrinter) external(source, name string) string {
	if swap, ok := pyTargetSwap[source]; ok {
		if swapped, ok := swap[name]; ok {
			name = swapped
		}
	}

	key := source + "." + name
	if alias, ok := p.aliases[key]; ok {
		return alias
	}

	alias := name
	if s := p.scope(); s != nil && s.Visible(alias) {
		alias = p.freshName(alias)
	}

	alias = p.registerImport(source, name, alias)
	p.aliases[key] = alias
	return alias
}

// -----------------------------------------------------------------------------

// printModule renders a whole module: user imports, interfaces, functions not
// covered by an interface, and the executable program section, with the
// synthesized imports appended to the import block.
func (p *pyPrinter) printModule(m *ast.Module) string {
	p.enterScope(m.Scope)
	defer p.exitScope()

	userImports := strings.Join(util.Map(m.Imports, p.printImport), "")

	interfaces := strings.Join(util.Map(m.Interfaces, p.printInterface), "")

	var funcs strings.Builder
	for _, fn := range m.Funcs {
		if !m.CoveredByInterface(fn) {
			funcs.WriteString(p.printFuncDef(fn))
		}
	}

	prog := ""
	if m.Program != nil {
		prog = p.printProgram(m.Program)
	}

	return userImports + p.emitImports() + "\n" + interfaces + funcs.String() + prog
}

// printProgram renders the executable section of a module.
func (p *pyPrinter) printProgram(prog *ast.Program) string {
	p.enterScope(prog.Scope)
	defer p.exitScope()

	body := strings.Join(util.Map(prog.Imports, p.printImport), "")
	body += p.printBlock(prog.Body)

	return "if __name__ == \"__main__\":\n" + p.indentBlock(body) + "\n"
}

// printImport renders a user-written import, applying the source and target
// name-swap tables at emission time and recording any aliases so later
// references use the name the import bound.
func (p *pyPrinter) printImport(imp *ast.Import) string {
	source := string(imp.Source)
	if swapped, ok := pySourceSwap[source]; ok {
		source = swapped
	}

	if len(imp.Targets) == 0 {
		return "import " + source + "\n"
	}

	swap := pyTargetSwap[string(imp.Source)]
	targets := make([]string, len(imp.Targets))
	for i, t := range imp.Targets {
		name := string(t.Name)
		if swapped, ok := swap[name]; ok {
			name = swapped
		}

		alias := string(t.Alias)
		if alias == "" || alias == name {
			targets[i] = name
			p.aliases[string(imp.Source)+"."+name] = name
		} else {
			targets[i] = name + " as " + alias
			p.aliases[string(imp.Source)+"."+name] = alias
		}
	}

	return "from " + source + " import " + strings.Join(targets, ", ") + "\n"
}

// emitImports renders the imports synthesized while printing.
func (p *pyPrinter) emitImports() string {
	var sb strings.Builder
	for _, source := range p.importOrder {
		set := p.imports[source]

		items := make([]string, len(set.names))
		for i, name := range set.names {
			if alias := set.aliases[name]; alias != name {
				items[i] = name + " as " + alias
			} else {
				items[i] = name
			}
		}

		sb.WriteString("from " + source + " import " + strings.Join(items, ", ") + "\n")
	}

	return sb.String()
}

// -----------------------------------------------------------------------------

// printInterface renders an interface by printing its first instantiation
// under the interface's name.
func (p *pyPrinter) printInterface(itf *ast.Interface) string {
	if len(itf.Functions) == 0 {
		return ""
	}

	fn := itf.Functions[0]
	renamed := *fn
	renamed.Name = itf.Name
	return p.printFuncDef(&renamed)
}

// printFuncDef renders a function definition: its decorators most recently
// processed first, then the definition with nested imports, nested functions
// and interfaces, and finally the main body.
func (p *pyPrinter) printFuncDef(fn *ast.FuncDef) string {
	p.enterScope(fn.Scope)
	defer p.exitScope()

	args := strings.Join(util.Map(fn.Args, p.printFuncArg), ", ")

	imports := strings.Join(util.Map(fn.Imports, p.printImport), "")

	var nested strings.Builder
	for _, sub := range fn.Functions {
		covered := false
		for _, itf := range fn.Interfaces {
			if itf.Covers(sub) {
				covered = true
				break
			}
		}
		if !covered {
			nested.WriteString(p.printFuncDef(sub))
		}
	}
	for _, itf := range fn.Interfaces {
		nested.WriteString(p.printInterface(itf))
	}

	body := p.printBlock(fn.Body)

	doc := ""
	if fn.DocString != "" {
		doc = "\"\"\"" + fn.DocString + "\"\"\"\n"
	}

	code := "def " + string(fn.Name) + "(" + args + "):\n" +
		p.indentBlock(doc+imports+nested.String()+body) + "\n"

	// Decorators concatenate most recently processed first.
	for _, dec := range fn.Decorators {
		code = p.printDecorator(dec) + code
	}

	return code
}

func (p *pyPrinter) printFuncArg(arg *ast.FuncArg) string {
	s := string(arg.Name)
	if arg.Annotation != "" {
		s += " : " + arg.Annotation
	}
	if arg.Default != nil {
		s += " = " + p.printExpr(arg.Default)
	}

	return s
}

// printDecorator renders one prefix annotation of a definition.
func (p *pyPrinter) printDecorator(dec *ast.Decorator) string {
	switch dec.Name {
	case ast.DecorKernel, ast.DecorDevice, ast.DecorTypes, ast.DecorTemplate:
		p.registerImport(pyDecoratorModule, dec.Name, "")
	}

	if dec.Name == ast.DecorTemplate {
		var sb strings.Builder
		for _, inst := range dec.Instances {
			sb.WriteString("@" + dec.Name + "(" + quoteAll(inst) + ")\n")
		}

		return sb.String()
	}

	if len(dec.Args) == 0 {
		return "@" + dec.Name + "\n"
	}

	return "@" + dec.Name + "(" + quoteAll(dec.Args) + ")\n"
}

func quoteAll(args []string) string {
	return strings.Join(util.Map(args, func(a string) string { return "'" + a + "'" }), ", ")
}

// -----------------------------------------------------------------------------

// printBlock renders a code block, or `pass` if it is empty.
func (p *pyPrinter) printBlock(block *ast.CodeBlock) string {
	if block == nil || len(block.Stmts) == 0 {
		return "pass\n"
	}

	return strings.Join(util.Map(block.Stmts, p.printStmt), "")
}

// printStmt renders one statement together with the directives annotating it:
// opening directives precede the statement, end directives follow it.
func (p *pyPrinter) printStmt(s ast.Stmt) string {
	var pre, post strings.Builder
	for _, a := range p.graph.AnnotationsOf(s) {
		if d, ok := a.(*omp.Directive); ok {
			if d.IsEnd {
				post.WriteString("#$ omp " + d.AnnotationText() + "\n")
			} else {
				pre.WriteString("#$ omp " + d.AnnotationText() + "\n")
			}
		}
	}

	return pre.String() + p.printStmtInner(s) + post.String()
}

func (p *pyPrinter) printStmtInner(s ast.Stmt) string {
	switch v := s.(type) {
	case *ast.Assign:
		return p.printAssign(v)

	case *ast.AugAssign:
		op, ok := pyBinOps[v.Op]
		if !ok {
			p.unsupported(v)
		}
		return p.printExpr(v.Lhs) + strings.TrimRight(op, " ") + "= " + p.printExpr(v.Rhs) + "\n"

	case *ast.For:
		p.enterScope(nil)
		defer p.exitScope()

		targets := strings.Join(util.Map(v.Targets, p.printExpr), ",")
		return "for " + targets + " in " + p.printExpr(v.Iterable) + ":\n" +
			p.indentBlock(p.printBlock(v.Body))

	case *ast.While:
		cond := p.printExpr(v.Cond)
		p.enterScope(nil)
		defer p.exitScope()

		return "while " + cond + ":\n" + p.indentBlock(p.printBlock(v.Body))

	case *ast.If:
		var sb strings.Builder
		for i, sec := range v.Sections {
			switch {
			case i == 0:
				sb.WriteString("if " + p.printExpr(sec.Cond) + ":\n")
			case sec.Cond == nil:
				sb.WriteString("else:\n")
			default:
				sb.WriteString("elif " + p.printExpr(sec.Cond) + ":\n")
			}

			sb.WriteString(p.indentBlock(p.printBlock(sec.Body)))
		}
		return sb.String()

	case *ast.Return:
		if len(v.Exprs) == 0 {
			return "return\n"
		}
		return "return " + strings.Join(util.Map(v.Exprs, p.printExpr), ", ") + "\n"

	case *ast.CodeBlock:
		return p.printBlock(v)

	case *ast.Pass:
		return "pass\n"

	case *ast.Break:
		return "break\n"

	case *ast.Continue:
		return "continue\n"

	case *ast.Comment:
		return "# " + v.Text + "\n"

	case *ast.ExprStmt:
		return p.printExpr(v.Expr) + "\n"

	case *ast.Comprehension:
		return p.printComprehensionStmt(v)

	default:
		p.unsupported(s)
		return ""
	}
}

// printAssign renders an assignment, inserting a transpose when the two sides
// of an array assignment disagree on memory order.
func (p *pyPrinter) printAssign(a *ast.Assign) string {
	lhs := p.printExpr(a.Lhs)
	rhs := p.printExpr(a.Rhs)

	if rv, ok := a.Rhs.(*ast.Variable); ok {
		rt, lt := rv.Type(), a.Lhs.Type()
		if rt.Rank > 1 && rt.Order != lt.Order {
			return lhs + " = " + rhs + ".T\n"
		}
	}

	return lhs + " = " + rhs + "\n"
}

// -----------------------------------------------------------------------------

func (p *pyPrinter) printExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		return p.printLiteral(v)

	case *ast.Variable:
		return string(v.Name)

	case *ast.IndexedElement:
		indices := strings.Join(util.Map(v.Indices, p.printExpr), ",")
		return p.printExpr(v.Base) + "[" + indices + "]"

	case *ast.SliceExpr:
		return p.printOpt(v.Start) + ":" + p.printOpt(v.Stop) + ":" + p.printOpt(v.Step)

	case *ast.RangeExpr:
		args := []string{p.printExpr(v.Start), p.printExpr(v.Stop)}
		if v.Step != nil {
			args = append(args, p.printExpr(v.Step))
		}
		return "range(" + strings.Join(args, ", ") + ")"

	case *ast.TupleExpr:
		elems := strings.Join(util.Map(v.Elems, p.printExpr), ", ")
		if len(v.Elems) == 1 {
			elems += ","
		}
		return "(" + elems + ")"

	case *ast.ListExpr:
		return "[" + strings.Join(util.Map(v.Elems, p.printExpr), ", ") + "]"

	case *ast.UnaryExpr:
		op, ok := pyUnaryOps[v.Op]
		if !ok {
			p.unsupported(v)
		}
		return op + p.printExpr(v.Operand)

	case *ast.BinaryExpr:
		op, ok := pyBinOps[v.Op]
		if !ok {
			p.unsupported(v)
		}
		return p.printExpr(v.Lhs) + op + p.printExpr(v.Rhs)

	case *ast.ParenExpr:
		return "(" + p.printExpr(v.Inner) + ")"

	case *ast.TernaryExpr:
		return p.printExpr(v.TrueVal) + " if " + p.printExpr(v.Cond) +
			" else " + p.printExpr(v.FalseVal)

	case *ast.FuncCall:
		return string(v.Name) + "(" + strings.Join(util.Map(v.Args, p.printExpr), ", ") + ")"

	case *ast.IntrinsicCall:
		// The Python target can call every elemental entry point directly:
		// the library broadcasts for us.
		name := p.external(v.Module, v.Name)
		return name + "(" + strings.Join(util.Map(v.Args, p.printExpr), ", ") + ")"

	case *ast.ArraySize:
		name := p.external("numpy", "shape")
		return name + "(" + p.printExpr(v.Arg) + ")[" + p.printExpr(v.Dim) + "]"

	case *ast.CastExpr:
		return p.castName(v.Type(), v.Span()) + "(" + p.printExpr(v.Arg) + ")"

	case *ast.Comprehension:
		return p.printComprehensionExpr(v)

	default:
		p.unsupported(e)
		return ""
	}
}

func (p *pyPrinter) printOpt(e ast.Expr) string {
	if e == nil {
		return ""
	}

	return p.printExpr(e)
}

// printLiteral renders a literal, wrapping non-default precisions in the
// width-specific numpy constructor.  A default-precision literal prints its
// spelling alone: the backend-native width never gets a suffix.
func (p *pyPrinter) printLiteral(l *ast.Literal) string {
	typ := l.Type()
	if typ.HasDefaultPrecision() {
		return l.Text
	}

	return p.castName(typ, l.Span()) + "(" + l.Text + ")"
}

// castName resolves the constructor name for an explicit conversion to the
// given descriptor, importing the width-specific numpy constructor on demand.
func (p *pyPrinter) castName(typ types.Descriptor, span *report.TextSpan) string {
	if typ.HasDefaultPrecision() {
		name, ok := pyBuiltinNames[typ.Kind]
		if !ok {
			p.rep.Fatalf(span, "no Python constructor for `%s`", typ.Repr())
		}
		return name
	}

	name, ok := pyCastNames[typ.Kind][typ.Precision]
	if !ok {
		p.rep.Fatalf(span, "no Python constructor for `%s`", typ.Repr())
	}

	return p.external("numpy", name)
}

// -----------------------------------------------------------------------------

// comprehensionParts recovers the element expression of a comprehension and
// renders its for clauses.
func (p *pyPrinter) comprehensionParts(c *ast.Comprehension) (string, string) {
	elem, pairs := lower.RecoverComprehension(c, p.graph, p.rep)

	// A reduction's terminal assignment folds the accumulator into itself:
	// prune the accumulator back out of the recovered element expression.
	elem = pruneAccumulator(elem, c)

	clauses := make([]string, len(pairs))
	for i, pair := range pairs {
		clauses[i] = "for " + p.printExpr(pair.Index) + " in " + p.printExpr(pair.Iterable)
	}

	return p.printExpr(elem), strings.Join(clauses, " ")
}

// pruneAccumulator strips the dummy accumulator from the terminal expression
// of a reduction comprehension: `acc + x` folds back to `x`, and
// `max(acc, x)` to `x`.
func pruneAccumulator(elem ast.Expr, c *ast.Comprehension) ast.Expr {
	if c.Dummy == nil {
		return elem
	}

	acc := ast.Node(c.Dummy)
	switch c.Mode {
	case ast.CompSum:
		if bin, ok := elem.(*ast.BinaryExpr); ok && bin.Op == ast.OpAdd {
			if ast.Node(bin.Lhs) == acc {
				return bin.Rhs
			}
			if ast.Node(bin.Rhs) == acc {
				return bin.Lhs
			}
		}

	case ast.CompMax, ast.CompMin:
		if call, ok := elem.(*ast.IntrinsicCall); ok && len(call.Args) == 2 {
			if ast.Node(call.Args[0]) == acc {
				return call.Args[1]
			}
			if ast.Node(call.Args[1]) == acc {
				return call.Args[0]
			}
		}
	}

	return elem
}

// printComprehensionStmt renders a comprehension feeding its target: a
// collecting comprehension becomes an array construction, a reduction becomes
// a generator expression under its reduction function.
func (p *pyPrinter) printComprehensionStmt(c *ast.Comprehension) string {
	body, clauses := p.comprehensionParts(c)
	lhs := p.printExpr(c.Target)

	switch c.Mode {
	case ast.CompCollect, ast.CompMap:
		name := p.external("numpy", "array")
		return lhs + " = " + name + "([" + body + " " + clauses + "])\n"
	default:
		return lhs + " = " + c.Mode.Repr() + "(" + body + " " + clauses + ")\n"
	}
}

// printComprehensionExpr renders a comprehension in expression position as an
// inline generator under its reduction function.  Only terminal comprehensions
// can stand inline; a collecting comprehension in expression position is an
// upstream shape error.
func (p *pyPrinter) printComprehensionExpr(c *ast.Comprehension) string {
	if !c.IsTerminal() {
		p.rep.Fatalf(c.Span(), "collecting comprehension cannot stand as an expression")
	}

	body, clauses := p.comprehensionParts(c)
	return c.Mode.Repr() + "(" + body + " " + clauses + ")"
}

// -----------------------------------------------------------------------------

// unsupported reports the fatal restriction diagnostic for a construct with
// no rendering rule for this backend.
func (p *pyPrinter) unsupported(n ast.Node) {
	p.rep.Fatalf(n.Span(), "restriction: construct not yet supported for the Python target")
}
