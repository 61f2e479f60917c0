// Package reporter writes build results as text, JSON or diffs.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/html7/pkg/runner"
)

// Reporter formats and writes build results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of failed files and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
