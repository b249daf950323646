package report

import "fmt"

// Enumeration of diagnostic severities.
const (
	SevWarning = iota // A message about suspect but legal input.
	SevError          // Erroneous input; compilation of the unit continues.
	SevFatal          // The current unit cannot be compiled any further.
)

// Diagnostic is a single message produced while compiling one unit.
type Diagnostic struct {
	// The severity of the diagnostic.  Must be one of the enumerated
	// severities above.
	Severity int

	// The span of source text the diagnostic refers to.  May be nil if no
	// position information is available.
	Span *TextSpan

	// The diagnostic message.
	Message string
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages (default).
)

// Reporter collects the diagnostics produced while compiling a single
// compilation unit.  It is an explicit context value: every pipeline stage
// receives the reporter of the unit it is working on, and independent units
// must each be given their own reporter.  A reporter is not safe for
// concurrent use.
type Reporter struct {
	// The absolute path to the unit's source file, used to display source
	// text selections.
	absPath string

	// The representative path of the unit used in message headers.
	reprPath string

	// The selected log level.  Must be one of the enumerated log levels.
	logLevel int

	// All diagnostics collected so far, in the order they were reported.
	diags []*Diagnostic

	// The number of diagnostics of each severity.
	counts [3]int
}

// NewReporter creates a fresh reporter for one compilation unit.
func NewReporter(absPath, reprPath string, logLevel int) *Reporter {
	return &Reporter{absPath: absPath, reprPath: reprPath, logLevel: logLevel}
}

// ReprPath returns the representative path of the unit being compiled.
func (r *Reporter) ReprPath() string {
	return r.reprPath
}

// Diagnostics returns all diagnostics collected so far in report order.
func (r *Reporter) Diagnostics() []*Diagnostic {
	return r.diags
}

// WarningCount returns the number of warnings reported so far.
func (r *Reporter) WarningCount() int {
	return r.counts[SevWarning]
}

// ErrorCount returns the number of non-fatal errors reported so far.
func (r *Reporter) ErrorCount() int {
	return r.counts[SevError]
}

// FatalCount returns the number of fatal diagnostics reported so far.  Callers
// must check this count before using any text returned by a printer.
func (r *Reporter) FatalCount() int {
	return r.counts[SevFatal]
}

// ShouldProceed indicates whether the unit is still error free.
func (r *Reporter) ShouldProceed() bool {
	return r.counts[SevError] == 0 && r.counts[SevFatal] == 0
}

// -----------------------------------------------------------------------------

// Warningf reports a warning at the given span.
func (r *Reporter) Warningf(span *TextSpan, msg string, args ...interface{}) {
	r.record(SevWarning, span, fmt.Sprintf(msg, args...))
}

// Errorf reports a non-fatal error at the given span.  Compilation of the unit
// continues, but no output will be produced.
func (r *Reporter) Errorf(span *TextSpan, msg string, args ...interface{}) {
	r.record(SevError, span, fmt.Sprintf(msg, args...))
}

// Fatalf reports a fatal diagnostic at the given span and aborts the current
// unit's pipeline by panicking with a unit abort.  The panic is recovered by
// the deferred CatchUnit handler at the unit boundary.
func (r *Reporter) Fatalf(span *TextSpan, msg string, args ...interface{}) {
	r.record(SevFatal, span, fmt.Sprintf(msg, args...))
	panic(&unitAbort{})
}

// ICE reports an internal compiler error: a framework invariant that should
// never be violated has been violated.  These are always fatal.
func (r *Reporter) ICE(msg string, args ...interface{}) {
	r.record(SevFatal, nil, "internal compiler error: "+fmt.Sprintf(msg, args...))
	panic(&unitAbort{})
}

// record appends a diagnostic and displays it subject to the log level.
func (r *Reporter) record(sev int, span *TextSpan, msg string) {
	d := &Diagnostic{Severity: sev, Span: span, Message: msg}
	r.diags = append(r.diags, d)
	r.counts[sev]++

	switch sev {
	case SevWarning:
		if r.logLevel > LogLevelError {
			displayDiagnostic(r.absPath, r.reprPath, d)
		}
	default:
		if r.logLevel > LogLevelSilent {
			displayDiagnostic(r.absPath, r.reprPath, d)
		}
	}
}
