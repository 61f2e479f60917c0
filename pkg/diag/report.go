package diag

import (
	"strconv"
	"strings"
)

// Indent precedes every snippet row.
const Indent = "    "

// Row is one line of a formatted excerpt.
type Row struct {
	// Gutter is the padded line number followed by "|", blank padding for
	// caret rows, or empty when line numbers are disabled.
	Gutter string
	// Text is the source line, or the caret run for caret rows.
	Text string
	// Caret marks an underline row.
	Caret bool
}

// Report is the structured form of a formatted error, used by renderers
// that style rows individually.
type Report struct {
	Rows    []Row
	Kind    Kind
	Summary string
}

// Report lays out the snippet rows and the summary message.
func (e *Error) Report() Report {
	lines := strings.Split(e.Snippet, "\n")
	showLines := e.StartLine > 0
	width := len(strconv.Itoa(e.StartLine + len(lines) - 1))

	offset := e.Offset
	remaining := e.Length
	lineStart := 0

	rows := make([]Row, 0, len(lines)*2)
	for i, line := range lines {
		row := Row{Text: line}
		if showLines {
			row.Gutter = padLeft(strconv.Itoa(e.StartLine+i), width) + "|"
		}
		rows = append(rows, row)

		lineEnd := lineStart + len(line)
		if lineEnd > offset && remaining != 0 {
			caretStart := max(0, offset-lineStart)
			caretLen := len(line) - caretStart
			if remaining > 0 {
				caretLen = min(remaining, caretLen)
			}
			remaining -= caretLen
			if remaining < 0 {
				remaining = ToEnd
			}
			offset += caretLen

			caret := Row{
				Text:  strings.Repeat(" ", caretStart) + strings.Repeat("^", max(0, caretLen)),
				Caret: true,
			}
			if showLines {
				caret.Gutter = strings.Repeat(" ", width+1)
			}
			rows = append(rows, caret)
		}
		lineStart = lineEnd
	}

	return Report{
		Rows:    rows,
		Kind:    e.Kind,
		Summary: summary(e, len(lines) > 1),
	}
}

// String joins the rows and the summary into the plain-text layout.
func (r Report) String() string {
	var b strings.Builder
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(row.Gutter)
		b.WriteString(Indent)
		b.WriteString(row.Text)
	}
	b.WriteString("\n\n")
	b.WriteString(r.Kind.String())
	b.WriteString(": ")
	b.WriteString(r.Summary)
	return b.String()
}

func summary(e *Error, multiline bool) string {
	if multiline {
		return e.Message + ", at:\n```html7\n" + e.Snippet + "\n```"
	}
	return e.Message + ", at '" + e.Snippet + "'"
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
