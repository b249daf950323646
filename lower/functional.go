// Package lower recovers the surface form of comprehensions from the
// desugared loop-based representation the upstream semantic stage produces:
// the element expression and the ordered iterables are extracted from the
// loop nest so a printer can re-synthesize a native comprehension or a
// collective call in the target language.
package lower

import (
	"pyrite/ast"
	"pyrite/report"
)

// IterPair is one (index variable, iterable) clause of a recovered
// comprehension, in outer-to-inner order.
type IterPair struct {
	Index    ast.Expr
	Iterable ast.Expr
}

// RecoverComprehension extracts the element expression and the ordered
// (index, iterable) clauses of a comprehension from its desugared loop nest.
// The recovered iterables are zipped positionally with the comprehension's own
// index-variable list; a length mismatch is a fatal shape error reported at
// the comprehension's location.
func RecoverComprehension(comp *ast.Comprehension, g *ast.Graph, rep *report.Reporter) (ast.Expr, []IterPair) {
	terminal, iterables := functionalParts(comp, g, rep)

	if len(iterables) != len(comp.Indices) {
		rep.Fatalf(comp.Span(),
			"comprehension shape mismatch: recovered %d iterables for %d index variables",
			len(iterables), len(comp.Indices))
	}

	pairs := make([]IterPair, len(iterables))
	for i, iter := range iterables {
		pairs[i] = IterPair{Index: comp.Indices[i], Iterable: iter}
	}

	return terminal.Rhs, pairs
}

// functionalParts descends through the desugared loop nest of a comprehension
// accumulating the iterables in outer-to-inner order until it reaches the
// single terminal assignment computing the element expression.
func functionalParts(comp *ast.Comprehension, g *ast.Graph, rep *report.Reporter) (*ast.Assign, []ast.Expr) {
	var iterables []ast.Expr

	var node ast.Node = comp.Loops
	for {
		switch b := node.(type) {
		case *ast.Assign:
			// The terminal assignment computing the element expression.
			return b, iterables

		case *ast.CodeBlock:
			node = descendBlock(b, comp, g, rep)

		case *ast.For:
			iterables = append(iterables, b.Iterable)
			node = b.Body

		case *ast.Comprehension:
			// A nested comprehension: recursively lowered, its clauses
			// appended in outer-to-inner order.
			terminal, inner := functionalParts(b, g, rep)
			iterables = append(iterables, inner...)
			return terminal, iterables

		default:
			rep.Fatalf(comp.Span(),
				"unexpected construct in a comprehension loop nest")
		}
	}
}

// descendBlock resolves a code block inside a comprehension loop nest down to
// the single statement descent continues through.  Leading nested
// comprehension assignments feeding temporaries are inline-substituted into
// the remaining statements; any other extra statement is a shape the lowering
// cannot disambiguate and is rejected rather than guessed at.
func descendBlock(block *ast.CodeBlock, comp *ast.Comprehension, g *ast.Graph, rep *report.Reporter) ast.Node {
	stmts := make([]ast.Stmt, len(block.Stmts))
	copy(stmts, block.Stmts)

	for len(stmts) > 0 {
		inner, ok := stmts[0].(*ast.Comprehension)
		if !ok {
			break
		}

		// Replace the temporary target with the comprehension itself so the
		// nested loop prints inline where the temporary was referenced.
		stmts = stmts[1:]
		g.Substitute(inner.Target, inner)
	}

	if len(stmts) == 0 {
		rep.Fatalf(comp.Span(), "empty loop nest in a comprehension")
	}

	if len(stmts) > 1 {
		// Every extra statement must feed the comprehension's own dummy
		// accumulator; anything else is ambiguous.
		for _, s := range stmts[1:] {
			assign, ok := s.(*ast.Assign)
			if !ok || ast.Node(assign.Lhs) != ast.Node(comp.Dummy) {
				rep.Fatalf(comp.Span(),
					"comprehension loop nest contains a statement the lowering cannot disambiguate")
			}
		}
	}

	return stmts[0]
}
