package cli

import (
	"context"
	"errors"

	"github.com/yaklabco/html7/internal/configloader"
	"github.com/yaklabco/html7/pkg/fsutil"
	"github.com/yaklabco/html7/pkg/runner"
)

// Exit codes for html7.
const (
	// ExitSuccess indicates every source compiled.
	ExitSuccess = 0

	// ExitBuildFailed indicates at least one source failed to compile, or
	// the entry file is missing.
	ExitBuildFailed = 1

	// ExitOutdated indicates check mode found outputs that would change.
	ExitOutdated = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitInterrupted indicates the run was cancelled by a signal.
	ExitInterrupted = 130
)

// Sentinel errors returned by commands. They carry the exit status only;
// the details have already been reported.
var (
	// ErrBuildFailed is returned when one or more sources failed to compile.
	ErrBuildFailed = errors.New("build failed")

	// ErrOutdated is returned by check mode when outputs would change.
	ErrOutdated = errors.New("outputs out of date")

	// ErrConfig wraps configuration loading failures.
	ErrConfig = errors.New("invalid configuration")

	// ErrInvalidUsage wraps flag and argument errors.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromError maps a command error to a process exit code.
func ExitCodeFromError(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrBuildFailed),
		errors.Is(err, runner.ErrEntryNotFound),
		errors.Is(err, runner.ErrNoSources):
		return ExitBuildFailed
	case errors.Is(err, ErrOutdated):
		return ExitOutdated
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrNotDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsReported reports whether err only signals an exit status whose cause
// has already been printed.
func IsReported(err error) bool {
	return errors.Is(err, ErrBuildFailed) || errors.Is(err, ErrOutdated)
}
