// Package generate lowers a scalar subset of the node graph directly to LLVM
// IR.  It exists alongside the source-level backends for whole-program scalar
// kernels: arrays, strings, comprehensions, and interfaces have no LLVM
// rendering here and raise fatal restriction diagnostics.  Parallel
// directives are annotations on source text and are ignored at this level.
package generate

import (
	"fmt"

	"pyrite/ast"
	"pyrite/report"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// llvmIdent is the type used for LLVM identifiers.  It stores the value as
// well as whether or not the value has to be loaded explicitly to be used.
type llvmIdent struct {
	Val     value.Value
	Mutable bool
}

// Generator is responsible for converting a typed node graph into LLVM IR.
// It converts each module into a single LLVM module.
type Generator struct {
	// graph is the node graph being generated.
	graph *ast.Graph

	// rep is the reporter of the unit being generated.
	rep *report.Reporter

	// mod is the LLVM module being generated.
	mod *ir.Module

	// funcs is the table of declared functions by source name.
	funcs map[string]*ir.Func

	// externs is the table of external runtime functions declared on demand.
	externs map[string]*ir.Func

	// enclosingFunc is the function enclosing the block being compiled.
	enclosingFunc *ir.Func

	// localScopes is the stack of local scopes used during generation.
	localScopes []map[string]llvmIdent

	// loopExits and loopPosts are the branch targets of `break` and
	// `continue` for each enclosing loop, innermost last.
	loopExits []*ir.Block
	loopPosts []*ir.Block

	// block stores the current block being generated.
	block *ir.Block
}

// NewGenerator creates a new generator for the given node graph.
func NewGenerator(graph *ast.Graph, rep *report.Reporter) *Generator {
	return &Generator{
		graph:   graph,
		rep:     rep,
		mod:     ir.NewModule(),
		funcs:   make(map[string]*ir.Func),
		externs: make(map[string]*ir.Func),
	}
}

// Generate runs the main generation algorithm for the module.  Anything the
// scalar subset cannot express aborts the unit through the reporter.
func (g *Generator) Generate(m *ast.Module) *ir.Module {
	if len(m.Interfaces) > 0 {
		g.restrict(m.Interfaces[0].Span(), "interfaces cannot be rendered as LLVM")
	}

	// declare every function up front so that calls resolve regardless of
	// definition order
	for _, fn := range m.Funcs {
		g.declareFunc(fn)
	}

	for _, fn := range m.Funcs {
		g.genFuncDef(fn)
	}

	if m.Program != nil {
		g.genProgram(m.Program)
	}

	return g.mod
}

// genProgram generates the executable section as the entry point.
func (g *Generator) genProgram(prog *ast.Program) {
	mainFunc := g.mod.NewFunc("main", lltypes.I32)
	g.enclosingFunc = mainFunc
	g.block = mainFunc.NewBlock("entry")

	g.pushScope()
	g.genBlock(prog.Body)
	g.popScope()

	if g.block.Term == nil {
		g.block.NewRet(constant.NewInt(lltypes.I32, 0))
	}
}

// declareFunc declares the LLVM function for a definition without generating
// its body.
func (g *Generator) declareFunc(fn *ast.FuncDef) {
	var retType lltypes.Type = lltypes.Void
	switch len(fn.Results) {
	case 0:
	case 1:
		retType = g.convType(fn.Results[0].Type(), fn.Span())
	default:
		g.restrict(fn.Span(), "function `%s` returns %d values; LLVM functions return at most one",
			fn.Name, len(fn.Results))
	}

	params := make([]*ir.Param, len(fn.Args))
	for i, arg := range fn.Args {
		params[i] = ir.NewParam(string(arg.Name), g.convType(arg.Type, fn.Span()))
	}

	g.funcs[string(fn.Name)] = g.mod.NewFunc(string(fn.Name), retType, params...)
}

// genFuncDef generates the body of an already declared function.  Every
// parameter is spilled to a stack slot so that argument mutation works the
// same as local mutation.
func (g *Generator) genFuncDef(fn *ast.FuncDef) {
	llFunc := g.funcs[string(fn.Name)]
	g.enclosingFunc = llFunc
	g.block = llFunc.NewBlock("entry")

	g.pushScope()

	for _, param := range llFunc.Params {
		slot := g.block.NewAlloca(param.Type())
		g.block.NewStore(param, slot)
		g.defineLocal(param.Name(), slot, true)
	}

	g.genBlock(fn.Body)

	if g.block.Term == nil {
		if llFunc.Sig.RetType.Equal(lltypes.Void) {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(constant.NewZeroInitializer(llFunc.Sig.RetType))
		}
	}

	g.popScope()
}

// -----------------------------------------------------------------------------

// pushScope pushes a new local scope onto the scope stack.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[string]llvmIdent))
}

// popScope pops a local scope off of the local scope stack.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal defines a local variable.
func (g *Generator) defineLocal(name string, val value.Value, mutable bool) {
	g.localScopes[len(g.localScopes)-1][name] = llvmIdent{val, mutable}
}

// lookup looks up a symbol.  The returned boolean indicates whether a binding
// was found at all; mutability is carried on the ident.
func (g *Generator) lookup(name string) (llvmIdent, bool) {
	// iterate through scopes in reverse order to implement shadowing
	for i := len(g.localScopes) - 1; i >= 0; i-- {
		if ident, ok := g.localScopes[i][name]; ok {
			return ident, true
		}
	}

	if fn, ok := g.funcs[name]; ok {
		return llvmIdent{fn, false}, true
	}

	return llvmIdent{}, false
}

// -----------------------------------------------------------------------------

// appendBlock adds a new basic block to the current function.  It does *not*
// set the current block to this new block.
func (g *Generator) appendBlock() *ir.Block {
	return g.enclosingFunc.NewBlock(fmt.Sprintf("bb%d", len(g.enclosingFunc.Blocks)))
}

// getExtern declares an external runtime function on first use.
func (g *Generator) getExtern(name string, retType lltypes.Type, paramTypes ...lltypes.Type) *ir.Func {
	if fn, ok := g.externs[name]; ok {
		return fn
	}

	params := make([]*ir.Param, len(paramTypes))
	for i, pt := range paramTypes {
		params[i] = ir.NewParam("", pt)
	}

	fn := g.mod.NewFunc(name, retType, params...)
	g.externs[name] = fn
	return fn
}

// restrict reports the fatal restriction diagnostic for a construct the
// scalar subset cannot express.
func (g *Generator) restrict(span *report.TextSpan, format string, args ...interface{}) {
	g.rep.Fatalf(span, "restriction: "+format, args...)
}
