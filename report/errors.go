package report

import "fmt"

// unitAbort is the panic payload used by Fatalf and ICE to unwind the current
// unit's pipeline.  The diagnostic has already been recorded by the time the
// abort is raised, so recovery is a no-op beyond stopping the unwind.
type unitAbort struct{}

// LocalError is a compile error raised in a context where the reporter is not
// directly reachable: it is thrown by `panic` and converted into a fatal
// diagnostic by the deferred CatchUnit handler at the unit boundary.
type LocalError struct {
	// The error message.
	Message string

	// The span over which the error occurs.
	Span *TextSpan
}

func (le *LocalError) Error() string {
	return le.Message
}

// Raise creates a new local compile error.
func Raise(span *TextSpan, msg string, args ...interface{}) *LocalError {
	return &LocalError{Message: fmt.Sprintf(msg, args...), Span: span}
}

// -----------------------------------------------------------------------------

// CatchUnit catches anything thrown by a `panic` during the compilation of one
// unit and funnels it through the reporter.  A unit abort has already been
// recorded and simply stops unwinding here; a raised LocalError or standard Go
// error is recorded as a fatal diagnostic; anything else is an internal bug
// and keeps propagating.
// NB: This function must ALWAYS be deferred.
func (r *Reporter) CatchUnit() {
	if x := recover(); x != nil {
		switch e := x.(type) {
		case *unitAbort:
			// The diagnostic was recorded before the abort was raised.
		case *LocalError:
			r.record(SevFatal, e.Span, e.Message)
		case error:
			r.record(SevFatal, nil, e.Error())
		default:
			panic(x)
		}
	}
}
