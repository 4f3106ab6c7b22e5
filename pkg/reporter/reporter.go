// Package reporter renders compiler diagnostics: a message header plus the
// offending source line (and the one before it) with a caret under the
// column the error was reported at.
package reporter

import (
	"fmt"
	"strings"
)

const (
	ansiRed   = "\033[31m"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

type Reporter struct {
	filename string
	lines    []string
}

func New(source string, filename string) *Reporter {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return &Reporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a diagnostic that has no usable source position.
func (r *Reporter) Format(message string) string {
	return fmt.Sprintf("%s%sError:%s %s%s", ansiBold, ansiRed, ansiReset, message, r.location())
}

// FormatAt renders a diagnostic pointing at the given 1-based line and
// column. Up to two lines of context are shown: the previous line (when one
// exists) and the offending line, followed by a caret aligned to the column.
func (r *Reporter) FormatAt(message string, line, column int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%sError:%s %s%s\n", ansiBold, ansiRed, ansiReset, message, r.location())

	if line < 1 || line > len(r.lines) {
		return strings.TrimSuffix(b.String(), "\n")
	}

	if line > 1 {
		fmt.Fprintf(&b, "  %d | %s\n", line-1, r.lines[line-2])
	}

	sourceLine := r.lines[line-1]
	prefix := fmt.Sprintf("  %d | ", line)
	fmt.Fprintf(&b, "%s%s\n", prefix, sourceLine)

	if column > len(sourceLine)+1 {
		column = len(sourceLine) + 1
	}
	if column < 1 {
		column = 1
	}

	b.WriteString(strings.Repeat(" ", len(prefix)+column-1))
	b.WriteString(ansiRed + "^" + ansiReset)

	return b.String()
}

func (r *Reporter) location() string {
	if r.filename == "" {
		return ""
	}
	return fmt.Sprintf(" in %s", r.filename)
}
