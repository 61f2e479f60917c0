package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/html7/internal/ui/pretty"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output: "auto", "always" or "never".
	Color string

	// ShowSummary appends the aggregate statistics line.
	ShowSummary bool

	// Compact disables JSON indentation.
	Compact bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       pretty.ColorAuto,
		ShowSummary: true,
	}
}
