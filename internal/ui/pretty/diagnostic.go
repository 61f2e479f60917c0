package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/html7/pkg/diag"
)

// FormatDiagnostic renders a compile error like (*diag.Error).Format, with
// dimmed gutters and highlighted carets. Without color the output is
// identical to Format.
func (s *Styles) FormatDiagnostic(err *diag.Error) string {
	report := err.Report()

	var b strings.Builder
	for i, row := range report.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Gutter.Render(row.Gutter))
		b.WriteString(diag.Indent)
		if row.Caret {
			b.WriteString(s.Caret.Render(row.Text))
		} else {
			b.WriteString(s.Source.Render(row.Text))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(s.Error.Render(report.Kind.String()))
	b.WriteString(": ")
	b.WriteString(renderLines(s.Message, report.Summary))
	return b.String()
}

// renderLines styles each line separately so lipgloss does not pad
// multi-line text to a common width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// FormatFailed formats the line heading a file's diagnostic.
func (s *Styles) FormatFailed(source string) string {
	return s.Failure.Render("Failed to transpile") + " " + s.FilePath.Render(source) + ":"
}

// FormatFileError formats a non-compile failure such as an I/O error.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("%s: %s", s.FilePath.Render(path), s.Error.Render("error: "+err.Error()))
}

// FormatTranspiled formats the success line of one compiled file.
func (s *Styles) FormatTranspiled(source, output string) string {
	return s.Success.Render("Successfully transpiled") + " " + source + " -> " + output
}
