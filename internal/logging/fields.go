package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldSource     = "source"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Build fields.
	FieldMinify   = "minify"
	FieldCheck    = "check"
	FieldJobs     = "jobs"
	FieldOutDir   = "out_dir"
	FieldDuration = "duration"
	FieldWritten  = "written"
	FieldCacheHit = "cache_hits"
	FieldFlushed  = "cache_flushed"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesCompiled   = "files_compiled"
	FieldFilesWritten    = "files_written"
	FieldFilesFailed     = "files_failed"

	// Watch fields.
	FieldEvent = "event"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
