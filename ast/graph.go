package ast

import "pyrite/report"

// Stage enumerates the compilation stages a node graph can be built at.  The
// stage gates stage-specific construction checks: a syntactic graph has not
// yet had types resolved, so typed validation is skipped.
type Stage int

const (
	StageSyntactic Stage = iota
	StageSemantic
)

// Annotation is a side annotation attached to a node it follows, such as a
// parsed directive.  Annotations are not children: attaching one never changes
// the AST shape seen by a backend that does not understand it.
type Annotation interface {
	// AnnotationText returns the annotation's surface clause text.
	AnnotationText() string
}

// Graph is the node graph of one compilation unit: it tracks the reverse
// (user) edges of every registered node in an auxiliary index so that any node
// can be queried for its users in O(1) without embedding back-pointers in the
// nodes themselves.  The index is updated synchronously by Register and
// Substitute; it is never batched, because error attribution and printing rely
// on point-in-time accuracy.
type Graph struct {
	// The stage the graph is built at.
	stage Stage

	// The reporter of the unit this graph belongs to.
	rep *report.Reporter

	// The reverse index: for each node, the set of nodes with an owned-child
	// slot currently referencing it.
	users map[Node]map[Node]struct{}

	// Side annotations keyed by the node they follow.
	annots map[Node][]Annotation
}

// NewGraph creates a new empty node graph at the given stage.
func NewGraph(stage Stage, rep *report.Reporter) *Graph {
	return &Graph{
		stage:  stage,
		rep:    rep,
		users:  make(map[Node]map[Node]struct{}),
		annots: make(map[Node][]Annotation),
	}
}

// Stage returns the stage the graph was built at.
func (g *Graph) Stage() Stage {
	return g.stage
}

// Reporter returns the reporter of the unit this graph belongs to.
func (g *Graph) Reporter() *report.Reporter {
	return g.rep
}

// -----------------------------------------------------------------------------

// Register records the reverse edges of root and its whole subtree.  It is
// idempotent: registering the same tree twice adds no duplicate edges.
func (g *Graph) Register(root Node) {
	if root == nil {
		return
	}

	for _, child := range root.Children() {
		g.addEdge(child, root)
		g.Register(child)
	}
}

// addEdge records that owner holds an owned-child slot referencing child.
func (g *Graph) addEdge(child, owner Node) {
	owners, ok := g.users[child]
	if !ok {
		owners = make(map[Node]struct{})
		g.users[child] = owners
	}

	owners[owner] = struct{}{}
}

// Users returns the nodes whose owned-child slots currently reference n.
func (g *Graph) Users(n Node) []Node {
	owners := make([]Node, 0, len(g.users[n]))
	for owner := range g.users[n] {
		owners = append(owners, owner)
	}

	return owners
}

// HasUserOfKind returns whether any user of n satisfies the given predicate.
func (g *Graph) HasUserOfKind(n Node, pred func(Node) bool) bool {
	for owner := range g.users[n] {
		if pred(owner) {
			return true
		}
	}

	return false
}

// -----------------------------------------------------------------------------

// Substitute rebinds every owner slot of old to reference new instead,
// atomically updating the reverse indices of both nodes.  A slot owned by new
// itself is left bound to old: rebinding it would make new its own descendant
// and turn the graph cyclic.  Substituting a node with no registered owner
// slot is a framework invariant violation and is always fatal.
func (g *Graph) Substitute(old, new Node) {
	owners := g.users[old]
	if len(owners) == 0 {
		g.rep.ICE("substitution on a node with no owner slot")
	}

	// The new subtree's own edges must be indexed before it acquires users.
	g.Register(new)

	for owner := range owners {
		if owner == new {
			continue
		}

		if !owner.replaceChild(old, new) {
			g.rep.ICE("owner slot disagrees with the reverse index during substitution")
		}

		g.addEdge(new, owner)
		delete(owners, owner)
	}

	if len(owners) == 0 {
		delete(g.users, old)
	}
}

// -----------------------------------------------------------------------------

// Annotate attaches a side annotation to the node it follows.
func (g *Graph) Annotate(n Node, a Annotation) {
	g.annots[n] = append(g.annots[n], a)
}

// AnnotationsOf returns the side annotations attached to n in the order they
// were attached.
func (g *Graph) AnnotationsOf(n Node) []Annotation {
	return g.annots[n]
}
