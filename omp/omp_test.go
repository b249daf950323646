package omp

import (
	"testing"

	"pyrite/ast"
	"pyrite/report"

	"github.com/stretchr/testify/assert"
)

func testReporter() *report.Reporter {
	return report.NewReporter("", "unit.py", report.LogLevelSilent)
}

func parseOK(t *testing.T, text string, active Version) *Directive {
	t.Helper()

	rep := testReporter()
	var d *Directive
	func() {
		defer rep.CatchUnit()
		d = Parse(text, active, report.SpanOfLine(0, len(text)), rep)
	}()

	assert.Equal(t, 0, rep.FatalCount(), "unexpected fatal parsing `%s`", text)
	return d
}

func parseFails(t *testing.T, text string, active Version) {
	t.Helper()

	rep := testReporter()
	func() {
		defer rep.CatchUnit()
		Parse(text, active, report.SpanOfLine(0, len(text)), rep)
	}()

	assert.Equal(t, 1, rep.FatalCount(), "expected fatal parsing `%s`", text)
}

func TestRoundTrip(t *testing.T) {
	for _, text := range []string{
		"parallel",
		"parallel for private(x,y) reduction(+:s)",
		"parallel do num_threads(4)",
		"for schedule(static, 8) nowait",
		"simd safelen(8) aligned(a:32)",
		"end parallel",
		"barrier",
		"critical hint(omp_sync_hint_speculative)",
	} {
		d := parseOK(t, "#$ omp "+text, V45)
		assert.Equal(t, text, d.AnnotationText())
	}
}

func TestCombinedFormKept(t *testing.T) {
	d := parseOK(t, "#$ omp parallel for collapse(2)", V45)
	assert.Equal(t, "parallel", d.Construct)
	assert.Equal(t, "for", d.Combined)
	assert.True(t, d.NeedsLoop())

	// the Fortran spelling re-emits the keyword it was parsed with
	d = parseOK(t, "#$ omp parallel do", V45)
	assert.Equal(t, "do", d.Combined)
	assert.Equal(t, "parallel do", d.AnnotationText())
}

func TestClauseArgsSplitOnTopLevelCommas(t *testing.T) {
	d := parseOK(t, "#$ omp for schedule(static, 8) private(a(1,2), b)", V45)

	assert.Equal(t, []string{"static", "8"}, d.Clauses[0].Args)
	assert.Equal(t, []string{"a(1,2)", "b"}, d.Clauses[1].Args)

	// the raw text survives verbatim for re-emission
	assert.Equal(t, "a(1,2), b", d.Clauses[1].Raw)
}

func TestVersionGating(t *testing.T) {
	parseFails(t, "#$ omp loop bind(thread)", V45)
	parseOK(t, "#$ omp loop bind(thread)", V50)

	parseFails(t, "#$ omp masked filter(0)", V50)
	parseOK(t, "#$ omp masked filter(0)", V51)

	// a clause can be newer than its construct
	parseFails(t, "#$ omp for order(concurrent)", V45)
	parseOK(t, "#$ omp for order(concurrent)", V50)
}

func TestGrammarViolations(t *testing.T) {
	parseFails(t, "#$ omp frobnicate", V45)
	parseFails(t, "#$ omp barrier nowait", V45)
	parseFails(t, "#$ omp parallel num_threads", V45)
	parseFails(t, "#$ omp for schedule(static, 8, 16)", V45)
	parseFails(t, "#$ omp parallel private(x", V45)
	parseFails(t, "omp parallel", V45)
}

func TestEndDirectives(t *testing.T) {
	d := parseOK(t, "#$ omp end parallel", V45)
	assert.True(t, d.IsEnd)
	assert.False(t, d.NeedsLoop())
	assert.Equal(t, "end parallel", d.AnnotationText())

	// loop-family constructs take no end directive
	parseFails(t, "#$ omp end for", V45)
	parseFails(t, "#$ omp end parallel nowait", V45)
}

func TestValidateLoopFamily(t *testing.T) {
	d := parseOK(t, "#$ omp parallel for", V45)

	rep := testReporter()
	func() {
		defer rep.CatchUnit()
		Validate(d, &ast.For{}, rep)
	}()
	assert.Equal(t, 0, rep.FatalCount())

	rep = testReporter()
	func() {
		defer rep.CatchUnit()
		Validate(d, &ast.Pass{}, rep)
	}()
	assert.Equal(t, 1, rep.FatalCount())
}

func TestMasterDeprecationWarning(t *testing.T) {
	d := parseOK(t, "#$ omp master", V51)

	rep := testReporter()
	Validate(d, &ast.Pass{}, rep)
	assert.Equal(t, 1, rep.WarningCount())

	// no warning under older revisions
	d = parseOK(t, "#$ omp master", V45)
	rep = testReporter()
	Validate(d, &ast.Pass{}, rep)
	assert.Equal(t, 0, rep.WarningCount())
}

func TestVersionOrdering(t *testing.T) {
	assert.True(t, V51.AtLeast(V45))
	assert.True(t, V50.AtLeast(V50))
	assert.False(t, V45.AtLeast(V50))

	v, ok := ParseVersion("5.0")
	assert.True(t, ok)
	assert.Equal(t, V50, v)

	_, ok = ParseVersion("6.0")
	assert.False(t, ok)
}
