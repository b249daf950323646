package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func silentReporter() *Reporter {
	return NewReporter("", "unit.py", LogLevelSilent)
}

func TestCounts(t *testing.T) {
	r := silentReporter()
	assert.True(t, r.ShouldProceed())

	r.Warningf(nil, "suspicious")
	assert.True(t, r.ShouldProceed())

	r.Errorf(nil, "bad %s", "input")
	assert.False(t, r.ShouldProceed())

	assert.Equal(t, 1, r.WarningCount())
	assert.Equal(t, 1, r.ErrorCount())
	assert.Equal(t, 0, r.FatalCount())
	assert.Equal(t, "bad input", r.Diagnostics()[1].Message)
}

func TestFatalfUnwindsToCatchUnit(t *testing.T) {
	r := silentReporter()

	func() {
		defer r.CatchUnit()
		r.Fatalf(SpanOfLine(3, 10), "cannot continue")
		t.Fatal("unreachable after Fatalf")
	}()

	assert.Equal(t, 1, r.FatalCount())
	assert.Equal(t, 3, r.Diagnostics()[0].Span.StartLine)
}

func TestCatchUnitConvertsRaisedErrors(t *testing.T) {
	r := silentReporter()

	func() {
		defer r.CatchUnit()
		panic(Raise(SpanOfLine(0, 4), "slice %s must be an integer", "start"))
	}()

	assert.Equal(t, 1, r.FatalCount())
	assert.Equal(t, "slice start must be an integer", r.Diagnostics()[0].Message)
}

func TestCatchUnitConvertsPlainErrors(t *testing.T) {
	r := silentReporter()

	func() {
		defer r.CatchUnit()
		panic(errors.New("io failure"))
	}()

	assert.Equal(t, 1, r.FatalCount())
	assert.Nil(t, r.Diagnostics()[0].Span)
}

func TestICEMessagePrefix(t *testing.T) {
	r := silentReporter()

	func() {
		defer r.CatchUnit()
		r.ICE("owner slot disagrees")
	}()

	assert.Equal(t, 1, r.FatalCount())
	assert.Equal(t, "internal compiler error: owner slot disagrees", r.Diagnostics()[0].Message)
}

func TestSpanOver(t *testing.T) {
	start := &TextSpan{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 5}
	end := &TextSpan{StartLine: 3, StartCol: 0, EndLine: 3, EndCol: 7}

	over := NewSpanOver(start, end)
	assert.Equal(t, 1, over.StartLine)
	assert.Equal(t, 2, over.StartCol)
	assert.Equal(t, 3, over.EndLine)
	assert.Equal(t, 7, over.EndCol)
}
