package generate

import (
	"strconv"

	"pyrite/ast"
	"pyrite/report"
	"pyrite/types"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// llvmRuntime maps canonical "module.name" library entry points to the C
// runtime functions the generated module links against.  All of them are
// double -> double.
var llvmRuntime = map[string]string{
	"math.sqrt":  "sqrt",
	"math.fabs":  "fabs",
	"math.exp":   "exp",
	"math.log":   "log",
	"math.sin":   "sin",
	"math.cos":   "cos",
	"math.tan":   "tan",
	"math.floor": "floor",
	"math.ceil":  "ceil",
	"numpy.sqrt": "sqrt",
	"numpy.abs":  "fabs",
	"numpy.exp":  "exp",
	"numpy.log":  "log",
	"numpy.sin":  "sin",
	"numpy.cos":  "cos",
	"numpy.tan":  "tan",
}

// genExpr generates an expression, appending onto the current block.
func (g *Generator) genExpr(expr ast.Expr) value.Value {
	switch v := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(v)

	case *ast.Variable:
		{
			ident, ok := g.lookup(string(v.Name))
			if !ok {
				g.rep.ICE("undefined variable `%s` reached generation", v.Name)
			}

			if ident.Mutable {
				// mutable values are always wrapped in stack slots
				return g.block.NewLoad(ident.Val.Type().(*lltypes.PointerType).ElemType, ident.Val)
			}

			return ident.Val
		}

	case *ast.UnaryExpr:
		return g.genUnary(v)

	case *ast.BinaryExpr:
		return g.genBinary(v)

	case *ast.ParenExpr:
		return g.genExpr(v.Inner)

	case *ast.TernaryExpr:
		// both arms are scalar and side-effect free at this level, so a
		// select is enough
		return g.block.NewSelect(g.genExpr(v.Cond), g.genExpr(v.TrueVal), g.genExpr(v.FalseVal))

	case *ast.FuncCall:
		return g.genCall(v)

	case *ast.IntrinsicCall:
		return g.genRuntimeCall(v)

	case *ast.CastExpr:
		return g.genCast(g.genExpr(v.Arg), v.Arg.Type(), v.Type(), v.Span())
	}

	g.restrict(expr.Span(), "expression cannot be rendered as LLVM")
	return nil
}

// genCall generates a call to a user-defined function.
func (g *Generator) genCall(call *ast.FuncCall) value.Value {
	llFunc, ok := g.funcs[string(call.Name)]
	if !ok {
		g.restrict(call.Span(), "call to undefined function `%s` cannot be rendered as LLVM", call.Name)
	}

	llArgs := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		llArgs[i] = g.genExpr(arg)
	}

	return g.block.NewCall(llFunc, llArgs...)
}

// genRuntimeCall generates a call to a library entry point through the C math
// runtime.
func (g *Generator) genRuntimeCall(call *ast.IntrinsicCall) value.Value {
	name, ok := llvmRuntime[call.Module+"."+call.Name]
	if !ok || len(call.Args) != 1 {
		g.restrict(call.Span(), "library function `%s.%s` cannot be rendered as LLVM",
			call.Module, call.Name)
	}

	arg := g.genExpr(call.Args[0])
	arg = g.genCast(arg, call.Args[0].Type(), types.Scalar(types.KindFloat), call.Span())

	fn := g.getExtern(name, lltypes.Double, lltypes.Double)
	result := g.block.NewCall(fn, arg)
	return g.genCast(result, types.Scalar(types.KindFloat), call.Type(), call.Span())
}

// -----------------------------------------------------------------------------

// genUnary generates a unary operation.
func (g *Generator) genUnary(u *ast.UnaryExpr) value.Value {
	operand := g.genExpr(u.Operand)

	switch u.Op {
	case ast.OpPos:
		return operand

	case ast.OpNeg:
		if u.Operand.Type().Kind == types.KindFloat {
			return g.block.NewFNeg(operand)
		}
		// -int => 0 - int
		return g.block.NewSub(constant.NewInt(operand.Type().(*lltypes.IntType), 0), operand)

	case ast.OpNot:
		return g.block.NewXor(operand, constant.NewBool(true))

	case ast.OpInvert:
		return g.block.NewXor(operand, constant.NewInt(operand.Type().(*lltypes.IntType), -1))
	}

	g.restrict(u.Span(), "operator cannot be rendered as LLVM")
	return nil
}

// genBinary generates a binary operation, selecting the integer or floating
// instruction family from the operand kind.
func (g *Generator) genBinary(b *ast.BinaryExpr) value.Value {
	lhs := g.genExpr(b.Lhs)
	rhs := g.genExpr(b.Rhs)
	isFloat := b.Lhs.Type().Kind == types.KindFloat

	switch b.Op {
	case ast.OpAdd:
		if isFloat {
			return g.block.NewFAdd(lhs, rhs)
		}
		return g.block.NewAdd(lhs, rhs)
	case ast.OpSub:
		if isFloat {
			return g.block.NewFSub(lhs, rhs)
		}
		return g.block.NewSub(lhs, rhs)
	case ast.OpMul:
		if isFloat {
			return g.block.NewFMul(lhs, rhs)
		}
		return g.block.NewMul(lhs, rhs)
	case ast.OpDiv:
		if isFloat {
			return g.block.NewFDiv(lhs, rhs)
		}
		return g.block.NewSDiv(lhs, rhs)
	case ast.OpFloorDiv:
		if isFloat {
			quot := g.block.NewFDiv(lhs, rhs)
			return g.block.NewCall(g.getExtern("floor", lltypes.Double, lltypes.Double), quot)
		}
		return g.block.NewSDiv(lhs, rhs)
	case ast.OpMod:
		if isFloat {
			return g.block.NewFRem(lhs, rhs)
		}
		return g.block.NewSRem(lhs, rhs)
	case ast.OpPow:
		if isFloat {
			return g.block.NewCall(g.getExtern("pow", lltypes.Double, lltypes.Double, lltypes.Double), lhs, rhs)
		}
		g.restrict(b.Span(), "integer power cannot be rendered as LLVM")

	case ast.OpAnd, ast.OpBitAnd:
		return g.block.NewAnd(lhs, rhs)
	case ast.OpOr, ast.OpBitOr:
		return g.block.NewOr(lhs, rhs)
	case ast.OpBitXor:
		return g.block.NewXor(lhs, rhs)
	case ast.OpLShift:
		return g.block.NewShl(lhs, rhs)
	case ast.OpRShift:
		return g.block.NewAShr(lhs, rhs)

	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if isFloat {
			return g.block.NewFCmp(fpreds[b.Op], lhs, rhs)
		}
		return g.block.NewICmp(ipreds[b.Op], lhs, rhs)
	}

	g.restrict(b.Span(), "operator cannot be rendered as LLVM")
	return nil
}

var ipreds = map[ast.OpKind]enum.IPred{
	ast.OpEq: enum.IPredEQ, ast.OpNe: enum.IPredNE,
	ast.OpLt: enum.IPredSLT, ast.OpLe: enum.IPredSLE,
	ast.OpGt: enum.IPredSGT, ast.OpGe: enum.IPredSGE,
}

var fpreds = map[ast.OpKind]enum.FPred{
	ast.OpEq: enum.FPredOEQ, ast.OpNe: enum.FPredONE,
	ast.OpLt: enum.FPredOLT, ast.OpLe: enum.FPredOLE,
	ast.OpGt: enum.FPredOGT, ast.OpGe: enum.FPredOGE,
}

// -----------------------------------------------------------------------------

// genCast generates a scalar conversion between two descriptors.
func (g *Generator) genCast(srcVal value.Value, srcType, dstType types.Descriptor, span *report.TextSpan) value.Value {
	if !types.RequiresCast(srcType, dstType) {
		return srcVal
	}

	dstLL := g.convType(dstType, span)

	switch srcType.Kind {
	case types.KindInt:
		switch dstType.Kind {
		case types.KindInt:
			srcBits, dstBits := intBits(srcType), intBits(dstType)
			if srcBits == dstBits {
				return srcVal
			}
			if srcBits < dstBits {
				return g.block.NewSExt(srcVal, dstLL)
			}
			return g.block.NewTrunc(srcVal, dstLL)

		case types.KindFloat:
			return g.block.NewSIToFP(srcVal, dstLL)
		}

	case types.KindFloat:
		switch dstType.Kind {
		case types.KindFloat:
			if srcType.Precision == 4 {
				return g.block.NewFPExt(srcVal, dstLL)
			}
			if dstType.Precision == 4 {
				return g.block.NewFPTrunc(srcVal, dstLL)
			}
			return srcVal

		case types.KindInt:
			return g.block.NewFPToSI(srcVal, dstLL)
		}

	case types.KindBool:
		if dstType.Kind == types.KindInt {
			// always zext (booleans are never signed)
			return g.block.NewZExt(srcVal, dstLL)
		}
	}

	g.restrict(span, "cast from `%s` to `%s` cannot be rendered as LLVM",
		srcType.Repr(), dstType.Repr())
	return nil
}

// genLiteral generates a literal constant.
func (g *Generator) genLiteral(lit *ast.Literal) value.Value {
	typ := lit.Type()

	switch typ.Kind {
	case types.KindBool:
		return constant.NewBool(lit.Text == "True")

	case types.KindInt:
		{
			// strconv should always succeed (validated upstream)
			bits := intBits(typ)
			x, _ := strconv.ParseInt(lit.Text, 0, bits)
			return constant.NewInt(g.convType(typ, lit.Span()).(*lltypes.IntType), x)
		}

	case types.KindFloat:
		{
			x, _ := strconv.ParseFloat(lit.Text, 64)
			return constant.NewFloat(g.convType(typ, lit.Span()).(*lltypes.FloatType), x)
		}
	}

	g.restrict(lit.Span(), "`%s` literal cannot be rendered as LLVM", typ.Repr())
	return nil
}
