package pretty

import (
	"fmt"
	"strings"
	"time"

	"github.com/yaklabco/html7/pkg/runner"
)

// FormatSummaryOneLine formats build statistics as a single line, e.g.
// "Compiled 3 files (1 written, 2 unchanged) in 4ms".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, check bool) string {
	var parts []string

	switch {
	case check && stats.FilesChanged > 0:
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%s would change", countFiles(stats.FilesChanged))))
	case check:
		parts = append(parts, s.Success.Render("All outputs up to date")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", countFiles(stats.FilesCompiled))))
	case stats.FilesCompiled > 0:
		parts = append(parts, s.Success.Render("Compiled "+countFiles(stats.FilesCompiled))+
			s.Dim.Render(fmt.Sprintf(" (%d written, %d unchanged)", stats.FilesWritten, stats.FilesUnchanged)))
	}

	if stats.FilesFailed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%s failed", countFiles(stats.FilesFailed))))
	}

	line := strings.Join(parts, ", ")
	if stats.Duration > 0 {
		line += s.Dim.Render(" in " + stats.Duration.Round(time.Millisecond).String())
	}
	return line + "\n"
}

func countFiles(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
