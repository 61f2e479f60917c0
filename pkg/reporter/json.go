package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/html7/pkg/runner"
)

// File statuses in JSON output.
const (
	StatusWritten   = "written"
	StatusUnchanged = "unchanged"
	StatusChanged   = "changed"
	StatusFailed    = "failed"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Check   bool             `json:"check"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's outcome.
type JSONFileResult struct {
	Source string     `json:"source"`
	Output string     `json:"output"`
	Status string     `json:"status"`
	Diff   string     `json:"diff,omitempty"`
	Error  *JSONError `json:"error,omitempty"`
}

// JSONError describes a failure. Compile failures carry the diagnostic
// fields; other failures only the message.
type JSONError struct {
	Kind      string `json:"kind,omitempty"`
	Message   string `json:"message"`
	Snippet   string `json:"snippet,omitempty"`
	StartLine int    `json:"startLine,omitempty"`
	Formatted string `json:"formatted,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesCompiled  int `json:"filesCompiled"`
	FilesWritten   int `json:"filesWritten"`
	FilesUnchanged int `json:"filesUnchanged"`
	FilesChanged   int `json:"filesChanged"`
	FilesFailed    int `json:"filesFailed"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := buildJSONOutput(result)

	encoder := json.NewEncoder(r.bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesFailed, nil
}

func buildJSONOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}
	if result == nil {
		return output
	}

	output.Check = result.Check
	output.Summary = JSONSummary{
		FilesCompiled:  result.Stats.FilesCompiled,
		FilesWritten:   result.Stats.FilesWritten,
		FilesUnchanged: result.Stats.FilesUnchanged,
		FilesChanged:   result.Stats.FilesChanged,
		FilesFailed:    result.Stats.FilesFailed,
	}

	for _, file := range result.Files {
		entry := JSONFileResult{
			Source: result.Display(file.Source),
			Output: result.Display(file.Output),
			Diff:   file.Diff,
		}

		switch {
		case file.Error != nil:
			entry.Status = StatusFailed
			entry.Error = &JSONError{Message: file.Error.Error()}
			if de, ok := file.Diagnostic(); ok {
				entry.Error = &JSONError{
					Kind:      de.Kind.String(),
					Message:   de.Message,
					Snippet:   de.Snippet,
					StartLine: de.StartLine,
					Formatted: de.Format(),
				}
			}
		case file.Written:
			entry.Status = StatusWritten
		case file.Changed:
			entry.Status = StatusChanged
		default:
			entry.Status = StatusUnchanged
		}

		output.Files = append(output.Files, entry)
	}

	return output
}
