package omp

import (
	"strings"
	"unicode"

	"pyrite/report"
)

// lexer scans one directive comment into words and parenthesized argument
// groups.  It keeps the full directive text so that grammar violations can be
// reported with the offending text captured verbatim.
type lexer struct {
	// The full directive text, kept verbatim for diagnostics.
	full string

	// The remaining unscanned text.
	rest string

	// The source span of the directive comment line.
	span *report.TextSpan

	// The reporter of the unit being compiled.
	rep *report.Reporter
}

func newLexer(text string, span *report.TextSpan, rep *report.Reporter) *lexer {
	return &lexer{full: text, rest: text, span: span, rep: rep}
}

// fail reports a fatal directive grammar violation with the verbatim text.
func (l *lexer) fail(msg string) {
	l.rep.Fatalf(l.span, "%s in directive `%s`", msg, l.full)
}

// skipSpace consumes leading whitespace.
func (l *lexer) skipSpace() {
	l.rest = strings.TrimLeft(l.rest, " \t")
}

// done returns whether the whole directive has been consumed.
func (l *lexer) done() bool {
	l.skipSpace()
	return l.rest == ""
}

// word consumes and returns the next identifier-like word.  It returns ""
// when the next character does not begin a word.
func (l *lexer) word() string {
	l.skipSpace()

	n := 0
	for _, c := range l.rest {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' {
			n += len(string(c))
		} else {
			break
		}
	}

	word := l.rest[:n]
	l.rest = l.rest[n:]
	return word
}

// group consumes a balanced parenthesized group and returns the raw text
// between the parentheses verbatim.  It returns ("", false) if the next
// character is not an opening parenthesis; an unbalanced group is a fatal
// grammar violation.
func (l *lexer) group() (string, bool) {
	l.skipSpace()
	if !strings.HasPrefix(l.rest, "(") {
		return "", false
	}

	depth := 0
	for i, c := range l.rest {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := l.rest[1:i]
				l.rest = l.rest[i+1:]
				return raw, true
			}
		}
	}

	l.fail("unbalanced parenthesis")
	return "", false
}

// splitArgs splits a raw argument group on top-level commas, trimming the
// surrounding whitespace of each argument.
func splitArgs(raw string) []string {
	var args []string

	depth, start := 0, 0
	for i, c := range raw {
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(raw[start:i]))
				start = i + 1
			}
		}
	}

	if last := strings.TrimSpace(raw[start:]); last != "" {
		args = append(args, last)
	}

	return args
}
