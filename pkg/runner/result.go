package runner

import (
	"errors"
	"time"

	"github.com/yaklabco/html7/pkg/diag"
	"github.com/yaklabco/html7/pkg/syntax"
)

// FileOutcome is the result of compiling one target.
type FileOutcome struct {
	Target

	// Parsed is the compile result. Nil when Error is set.
	Parsed *syntax.ParsedSyntax

	// Written reports that Output was created or replaced.
	Written bool

	// Changed reports that Output differs (or would differ, in check mode)
	// from the compiled document.
	Changed bool

	// Diff is the unified diff of a changed output in check mode.
	Diff string

	Duration time.Duration

	// Error is a *diag.Error for compile failures, or an I/O error.
	Error error
}

// Diagnostic returns the compile error of a failed outcome, if any.
func (o FileOutcome) Diagnostic() (*diag.Error, bool) {
	var de *diag.Error
	if errors.As(o.Error, &de) {
		return de, true
	}
	return nil, false
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesCompiled   int
	FilesWritten    int
	FilesUnchanged  int
	FilesChanged    int
	FilesFailed     int
	Duration        time.Duration
}

// Result is the overall build result.
type Result struct {
	// Files is ordered like the planned targets.
	Files []FileOutcome

	Stats Stats

	// WorkingDir is the directory display paths are relative to.
	WorkingDir string

	// Check reports that the run did not write outputs.
	Check bool
}

// HasFailures reports whether any file failed to compile or write.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.FilesFailed > 0
}

// HasChanges reports whether any output changed or would change.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// Display returns p relative to the working directory when possible.
func (r *Result) Display(p string) string {
	if r == nil || r.WorkingDir == "" {
		return p
	}
	return displayPath(r.WorkingDir, p)
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesFailed++
		return
	}

	r.Stats.FilesCompiled++
	if outcome.Written {
		r.Stats.FilesWritten++
	}
	if outcome.Changed {
		r.Stats.FilesChanged++
	} else {
		r.Stats.FilesUnchanged++
	}
}
