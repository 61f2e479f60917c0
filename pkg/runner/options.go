// Package runner compiles html7 sources to HTML files, one worker per job.
package runner

import "github.com/yaklabco/html7/pkg/config"

// Options controls a build.
type Options struct {
	// Paths are the user-specified files or directories to compile. Empty
	// selects entry mode: <root>/<entry> is compiled to <outDir>/<output>.
	Paths []string

	// WorkingDir is the base directory for relative paths, root and outDir.
	// If empty, the process working directory is used.
	WorkingDir string

	// Extensions considered html7 sources. Defaults to DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip files or directories, matched against paths
	// relative to WorkingDir.
	ExcludeGlobs []string

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs is the maximum number of concurrent compiles. 0 or negative
	// means runtime.NumCPU().
	Jobs int

	// Check compiles without writing and reports outputs that would change.
	Check bool

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the html7 source extensions.
func DefaultExtensions() []string {
	return []string{config.SourceExtension}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectiveConfig() *config.Config {
	if o.Config == nil {
		return config.NewConfig()
	}
	return o.Config
}
