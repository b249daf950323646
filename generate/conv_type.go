package generate

import (
	"pyrite/report"
	"pyrite/types"

	lltypes "github.com/llir/llvm/ir/types"
)

// convType converts a scalar descriptor to its LLVM type.  Default precision
// resolves to the widest native width of the kind.
func (g *Generator) convType(typ types.Descriptor, span *report.TextSpan) lltypes.Type {
	if typ.Rank > 0 {
		g.restrict(span, "arrays cannot be rendered as LLVM")
	}

	switch typ.Kind {
	case types.KindNothing:
		return lltypes.Void

	case types.KindBool:
		return lltypes.I1

	case types.KindInt:
		switch typ.Precision {
		case 1:
			return lltypes.I8
		case 2:
			return lltypes.I16
		case 4:
			return lltypes.I32
		case 8, types.DefaultPrecision:
			return lltypes.I64
		}

	case types.KindFloat:
		switch typ.Precision {
		case 4:
			return lltypes.Float
		case 8, types.DefaultPrecision:
			return lltypes.Double
		}
	}

	g.restrict(span, "`%s` values cannot be rendered as LLVM", typ.Repr())
	return nil
}

// intBits returns the bit width of an integer descriptor.
func intBits(typ types.Descriptor) int {
	switch typ.Precision {
	case 1:
		return 8
	case 2:
		return 16
	case 4:
		return 32
	default:
		return 64
	}
}
