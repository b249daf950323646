package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	warnStyle    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorStyle   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	successStyle = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	warnColor    = pterm.FgYellow
	errorColor   = pterm.FgRed
	successColor = pterm.FgLightGreen
)

// DisplayFatal displays a top-level error not tied to any compilation unit.
// The driver uses it for configuration and environment failures.
func DisplayFatal(msg string, args ...interface{}) {
	errorStyle.Print("fatal")
	errorColor.Println(" " + fmt.Sprintf(msg, args...))
}

// DisplayInfoMessage displays a tagged informational message.
func DisplayInfoMessage(tag, msg string) {
	successStyle.Print(tag)
	successColor.Println(" " + msg)
}

// severityLabels maps severities to the labels displayed to the user.
var severityLabels = map[int]string{
	SevWarning: "warning",
	SevError:   "error",
	SevFatal:   "fatal",
}

// displayDiagnostic displays a single diagnostic to the console, including a
// caret-underlined source text selection if position information is available.
func displayDiagnostic(absPath, reprPath string, d *Diagnostic) {
	label := severityLabels[d.Severity]

	style, color := errorStyle, errorColor
	if d.Severity == SevWarning {
		style, color = warnStyle, warnColor
	}

	style.Print(label)
	if d.Span == nil {
		color.Printf(" %s: %s\n\n", reprPath, d.Message)
		return
	}

	color.Printf(" %s:%d:%d: %s\n\n", reprPath, d.Span.StartLine+1, d.Span.StartCol+1, d.Message)
	displaySourceText(absPath, d.Span)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
func displaySourceText(absPath string, span *TextSpan) {
	// Open the file so we can read the desired source text.  Units compiled
	// from memory have no backing file: nothing to display.
	file, err := os.Open(absPath)
	if err != nil {
		return
	}
	defer file.Close()

	// Collect all the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Generate the format string for line numbers.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		// Print the line number, separator bar, and the source text with the
		// leading indent trimmed off.
		fmt.Printf(lineNumFmtStr, i+span.StartLine+1)
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining starts at the start column on the first line and at the
		// left margin on every continuation line.
		carretPrefixCount := 0
		if i == 0 && span.StartCol > minIndent {
			carretPrefixCount = span.StartCol - minIndent
		}

		// Underlining stops at the end column on the last line and spans to
		// the end of the line on every other line.
		carretSuffixCount := 0
		if i == len(lines)-1 {
			carretSuffixCount = len(line) - span.EndCol
		}

		carretCount := len(line) - carretSuffixCount - carretPrefixCount - minIndent
		if carretCount < 1 {
			carretCount = 1
		}

		fmt.Print(strings.Repeat(" ", carretPrefixCount))
		fmt.Println(strings.Repeat("^", carretCount))
	}

	fmt.Println()
}
