package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/html7/internal/ui/pretty"
	"github.com/yaklabco/html7/pkg/runner"
)

// TextReporter writes one line per compiled file and formatted diagnostics
// for failures.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("No files to transpile."))
		}
		return 0, nil
	}

	var failures int
	for _, file := range result.Files {
		source := result.Display(file.Source)
		output := result.Display(file.Output)

		switch {
		case file.Error != nil:
			failures++
			if de, ok := file.Diagnostic(); ok {
				fmt.Fprintln(r.bw, r.styles.FormatFailed(source))
				fmt.Fprintln(r.bw, r.styles.FormatDiagnostic(de))
				fmt.Fprintln(r.bw)
				continue
			}
			fmt.Fprintln(r.bw, r.styles.FormatFileError(source, file.Error))

		case result.Check:
			if file.Changed {
				fmt.Fprintf(r.bw, "%s %s\n", r.styles.FilePath.Render(output), r.styles.Warning.Render("would change"))
			}

		default:
			fmt.Fprintln(r.bw, r.styles.FormatTranspiled(source, output))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, result.Check))
	}

	return failures, nil
}
