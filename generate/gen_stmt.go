package generate

import (
	"pyrite/ast"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genBlock generates the statements of a block in order.  Generation stops at
// the first terminator: anything after a `break`, `continue`, or `return` is
// unreachable.
func (g *Generator) genBlock(block *ast.CodeBlock) {
	if block == nil {
		return
	}

	for _, stmt := range block.Stmts {
		if g.block.Term != nil {
			return
		}

		g.genStmt(stmt)
	}
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.Assign:
		g.genAssign(v)

	case *ast.AugAssign:
		{
			// rewrite `lhs op= rhs` as `lhs = lhs op rhs` and reuse the
			// binary generator
			bin := &ast.BinaryExpr{
				ExprBase: ast.NewExprBase(v.Lhs.Type(), v.Span()),
				Op:       v.Op,
				Lhs:      v.Lhs,
				Rhs:      v.Rhs,
			}

			g.store(v.Lhs, g.genBinary(bin))
		}

	case *ast.For:
		g.genFor(v)

	case *ast.While:
		g.genWhile(v)

	case *ast.If:
		g.genIf(v)

	case *ast.Return:
		switch len(v.Exprs) {
		case 0:
			g.block.NewRet(nil)
		case 1:
			g.block.NewRet(g.genExpr(v.Exprs[0]))
		default:
			g.restrict(v.Span(), "LLVM functions return at most one value")
		}

	case *ast.Break:
		g.block.NewBr(g.loopExits[len(g.loopExits)-1])

	case *ast.Continue:
		g.block.NewBr(g.loopPosts[len(g.loopPosts)-1])

	case *ast.CodeBlock:
		g.genBlock(v)

	case *ast.ExprStmt:
		g.genExpr(v.Expr)

	case *ast.Pass, *ast.Comment:
		// nothing to generate

	default:
		g.restrict(s.Span(), "statement cannot be rendered as LLVM")
	}
}

// genAssign generates an assignment, allocating a stack slot on the first
// definition of a variable.
func (g *Generator) genAssign(a *ast.Assign) {
	g.store(a.Lhs, g.genExpr(a.Rhs))
}

// store writes a value through the stack slot of an assignable expression.
func (g *Generator) store(lhs ast.Expr, val value.Value) {
	v, ok := lhs.(*ast.Variable)
	if !ok {
		g.restrict(lhs.Span(), "assignment target cannot be rendered as LLVM")
	}

	ident, ok := g.lookup(string(v.Name))
	if !ok {
		slot := g.block.NewAlloca(val.Type())
		g.defineLocal(string(v.Name), slot, true)
		g.block.NewStore(val, slot)
		return
	}

	if !ident.Mutable {
		g.rep.ICE("store to immutable binding `%s`", v.Name)
	}

	g.block.NewStore(val, ident.Val)
}

// -----------------------------------------------------------------------------

// genIf generates a conditional chain.
func (g *Generator) genIf(stmt *ast.If) {
	endBlock := g.appendBlock()
	reachable := false

	for i, sec := range stmt.Sections {
		if sec.Cond == nil {
			// final else
			g.pushScope()
			g.genBlock(sec.Body)
			g.popScope()

			if g.block.Term == nil {
				g.block.NewBr(endBlock)
				reachable = true
			}
			continue
		}

		bodyBlock := g.appendBlock()

		// if there is no further section, the "else" target is the end block
		var elseBlock *ir.Block
		if i == len(stmt.Sections)-1 {
			elseBlock = endBlock
			reachable = true
		} else {
			elseBlock = g.appendBlock()
		}

		g.block.NewCondBr(g.genExpr(sec.Cond), bodyBlock, elseBlock)

		g.block = bodyBlock
		g.pushScope()
		g.genBlock(sec.Body)
		g.popScope()

		if g.block.Term == nil {
			g.block.NewBr(endBlock)
			reachable = true
		}

		// position the generator in the else block: that is where the next
		// section's condition will be generated
		g.block = elseBlock
	}

	g.block = endBlock

	if !reachable {
		// every path terminated; keep the IR well formed
		g.block.NewUnreachable()
	}
}

// genWhile generates a while loop.
func (g *Generator) genWhile(stmt *ast.While) {
	headerBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(headerBlock)

	g.block = headerBlock
	g.block.NewCondBr(g.genExpr(stmt.Cond), bodyBlock, endBlock)

	g.pushLoop(endBlock, headerBlock)
	g.pushScope()

	g.block = bodyBlock
	g.genBlock(stmt.Body)
	if g.block.Term == nil {
		g.block.NewBr(headerBlock)
	}

	g.popScope()
	g.popLoop()

	g.block = endBlock
}

// genFor generates a loop over an explicit integer range.
func (g *Generator) genFor(stmt *ast.For) {
	rng, ok := stmt.Iterable.(*ast.RangeExpr)
	if !ok || len(stmt.Targets) != 1 {
		g.restrict(stmt.Span(), "only loops over an integer range can be rendered as LLVM")
	}

	target, ok := stmt.Targets[0].(*ast.Variable)
	if !ok {
		g.restrict(stmt.Span(), "loop target cannot be rendered as LLVM")
	}

	g.pushScope()

	// the index variable lives in a fresh slot scoped to the loop
	slot := g.block.NewAlloca(lltypes.I64)
	g.defineLocal(string(target.Name), slot, true)
	g.block.NewStore(g.genExpr(rng.Start), slot)

	stop := g.genExpr(rng.Stop)
	var step value.Value
	if rng.Step != nil {
		step = g.genExpr(rng.Step)
	}

	headerBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	postBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(headerBlock)

	if step == nil {
		step = constant.NewInt(lltypes.I64, 1)
	}

	g.block = headerBlock
	idx := g.block.NewLoad(lltypes.I64, slot)
	g.block.NewCondBr(g.block.NewICmp(enum.IPredSLT, idx, stop), bodyBlock, endBlock)

	g.pushLoop(endBlock, postBlock)

	g.block = bodyBlock
	g.genBlock(stmt.Body)
	if g.block.Term == nil {
		g.block.NewBr(postBlock)
	}

	g.block = postBlock
	idx = g.block.NewLoad(lltypes.I64, slot)
	g.block.NewStore(g.block.NewAdd(idx, step), slot)
	g.block.NewBr(headerBlock)

	g.popLoop()
	g.popScope()

	g.block = endBlock
}

// -----------------------------------------------------------------------------

func (g *Generator) pushLoop(exit, post *ir.Block) {
	g.loopExits = append(g.loopExits, exit)
	g.loopPosts = append(g.loopPosts, post)
}

func (g *Generator) popLoop() {
	g.loopExits = g.loopExits[:len(g.loopExits)-1]
	g.loopPosts = g.loopPosts[:len(g.loopPosts)-1]
}
