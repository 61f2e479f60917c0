package reporter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/html7/internal/ui/pretty"
	"github.com/yaklabco/html7/pkg/runner"
)

// DiffReporter writes the unified diffs of check runs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	if result == nil {
		return 0, nil
	}

	var failures, filesWithDiffs, additions, deletions int

	for _, file := range result.Files {
		if file.Error != nil {
			failures++
			source := result.Display(file.Source)
			if de, ok := file.Diagnostic(); ok {
				fmt.Fprintln(r.out, r.styles.FormatFailed(source))
				fmt.Fprintln(r.out, r.styles.FormatDiagnostic(de))
				fmt.Fprintln(r.out)
				continue
			}
			fmt.Fprintln(r.out, r.styles.FormatFileError(source, file.Error))
			continue
		}

		if file.Diff == "" {
			continue
		}

		filesWithDiffs++
		add, del := r.writeDiff(result.Display(file.Output), file.Diff)
		additions += add
		deletions += del
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, additions, deletions)
	}

	return failures, nil
}

// writeDiff outputs one file's diff and returns its line counts.
func (r *DiffReporter) writeDiff(path, diff string) (additions, deletions int) {
	header := fmt.Sprintf("diff --git a/%s b/%s", path, path)
	fmt.Fprintln(r.out, r.styles.DiffHeader.Render(header))
	fmt.Fprintln(r.out, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.out, r.styles.DiffAdd.Render("+++ b/"+path))

	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	if len(lines) >= 2 && strings.HasPrefix(lines[0], "--- ") && strings.HasPrefix(lines[1], "+++ ") {
		lines = lines[2:]
	}

	for _, line := range lines {
		var styled string
		switch {
		case strings.HasPrefix(line, "@@"):
			styled = r.styles.DiffHunk.Render(line)
		case strings.HasPrefix(line, "+"):
			additions++
			styled = r.styles.DiffAdd.Render(line)
		case strings.HasPrefix(line, "-"):
			deletions++
			styled = r.styles.DiffRemove.Render(line)
		default:
			styled = r.styles.DiffContext.Render(line)
		}
		fmt.Fprintln(r.out, styled)
	}

	fmt.Fprintln(r.out)
	return additions, deletions
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}

	fmt.Fprintln(r.out, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
