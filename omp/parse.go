package omp

import (
	"strings"

	"pyrite/ast"
	"pyrite/report"
	"pyrite/util"
)

// Sentinel is the comment prefix beginning every directive line.
const Sentinel = "#$ omp"

// Clause is one parsed clause: a name and its argument list.  The raw
// argument text is kept verbatim so that re-emission reproduces the original
// surface syntax.
type Clause struct {
	Name string

	// The arguments split on top-level commas.
	Args []string

	// The raw text between the clause's parentheses, verbatim.  Empty for
	// argument-free clauses.
	Raw string
}

// text reconstructs the clause's surface syntax.
func (c *Clause) text() string {
	if c.Raw == "" {
		return c.Name
	}

	return c.Name + "(" + c.Raw + ")"
}

// Directive is the typed clause tree parsed from one directive comment.  It
// is attached to the node it follows as a side annotation, never as a child.
type Directive struct {
	// The directive construct (eg. "parallel").
	Construct string

	// The combination keyword of a combined form (eg. the "for" of
	// "parallel for"), or empty.  Re-emission reproduces the same
	// combination keyword the directive was parsed with.
	Combined string

	// The parsed clauses in source order.
	Clauses []*Clause

	// Whether this is an end directive.
	IsEnd bool

	// The revision the directive was parsed under.
	Version Version

	span *report.TextSpan
}

// Span returns the source span of the directive comment line.
func (d *Directive) Span() *report.TextSpan {
	return d.span
}

// AnnotationText reconstructs the directive's clause text without a sentinel:
// parsing and re-printing an unclaused directive yields byte-identical text.
func (d *Directive) AnnotationText() string {
	parts := make([]string, 0, len(d.Clauses)+3)
	if d.IsEnd {
		parts = append(parts, "end")
	}

	parts = append(parts, d.Construct)
	if d.Combined != "" {
		parts = append(parts, d.Combined)
	}
	for _, c := range d.Clauses {
		parts = append(parts, c.text())
	}

	return strings.Join(parts, " ")
}

// NeedsLoop returns whether the directive must annotate a loop statement.
func (d *Directive) NeedsLoop() bool {
	if d.IsEnd {
		return false
	}

	return grammar[d.Construct].needsLoop ||
		(d.Combined != "" && grammar[d.Combined].needsLoop)
}

// -----------------------------------------------------------------------------

// Parse parses one directive comment line under the active revision into a
// typed clause tree.  Parsing is strict: any grammar violation is a fatal
// diagnostic tied to the comment's source line, never silently dropped.
func Parse(text string, active Version, span *report.TextSpan, rep *report.Reporter) *Directive {
	l := newLexer(text, span, rep)

	// The sentinel itself.  The space between `#$` and `omp` is optional.
	l.skipSpace()
	if !strings.HasPrefix(l.rest, "#$") {
		l.fail("missing `#$ omp` sentinel")
	}
	l.rest = l.rest[2:]
	if l.word() != "omp" {
		l.fail("missing `#$ omp` sentinel")
	}

	d := &Directive{Version: active, span: span}

	head := l.word()
	if head == "" {
		l.fail("missing directive construct")
	}

	if head == "end" {
		d.IsEnd = true
		head = l.word()
		if head == "" {
			l.fail("missing construct after `end`")
		}
	}

	rule, ok := grammar[head]
	if !ok {
		l.fail("unknown construct `" + head + "`")
	}
	if !active.AtLeast(rule.since) {
		l.fail("construct `" + head + "` requires revision " + string(rule.since) +
			" (active revision " + string(active) + ")")
	}
	d.Construct = head

	// A combined form: the combination keyword is recorded so re-emission can
	// reproduce it.
	save := l.rest
	if next := l.word(); next != "" && util.Contains(rule.combinable, next) {
		d.Combined = next
	} else {
		l.rest = save
	}

	if d.IsEnd {
		if !rule.hasEnd {
			l.fail("construct `" + head + "` takes no end directive")
		}
		if !l.done() {
			l.fail("unexpected text after end directive")
		}

		return d
	}

	parseClauses(l, d, active)
	return d
}

// parseClauses parses the clause list of a non-end directive, validating each
// clause against the active revision's vocabulary.
func parseClauses(l *lexer, d *Directive, active Version) {
	legal := legalClauses(d.Construct, d.Combined)

	for !l.done() {
		name := l.word()
		if name == "" {
			l.fail("expected a clause name")
		}

		rule, ok := legal[name]
		if !ok {
			l.fail("clause `" + name + "` is not legal on `" + d.spelled() + "`")
		}
		if !active.AtLeast(rule.since) {
			l.fail("clause `" + name + "` requires revision " + string(rule.since) +
				" (active revision " + string(active) + ")")
		}

		clause := &Clause{Name: name}
		if raw, ok := l.group(); ok {
			clause.Raw = raw
			clause.Args = splitArgs(raw)
		}

		if len(clause.Args) < rule.minArgs {
			l.fail("clause `" + name + "` is missing arguments")
		}
		if rule.maxArgs != -1 && len(clause.Args) > rule.maxArgs {
			l.fail("too many arguments to clause `" + name + "`")
		}

		d.Clauses = append(d.Clauses, clause)
	}
}

// spelled returns the construct's full spelling including the combination
// keyword.
func (d *Directive) spelled() string {
	if d.Combined != "" {
		return d.Construct + " " + d.Combined
	}

	return d.Construct
}

// -----------------------------------------------------------------------------

// Validate checks the parsed directive against the node it annotates.  A
// loop-family directive must annotate a for loop; a directive construct
// deprecated under the active revision draws a warning.
func Validate(d *Directive, node ast.Node, rep *report.Reporter) {
	if d.NeedsLoop() {
		if _, ok := node.(*ast.For); !ok {
			rep.Fatalf(d.span, "directive `%s` must annotate a for loop", d.spelled())
		}
	}

	if d.Construct == "master" && d.Version.AtLeast(V51) {
		rep.Warningf(d.span, "construct `master` is deprecated as of revision 5.1; use `masked`")
	}
}
