package configloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/html7/pkg/config"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the config key of the invalid value (e.g., "tags.standard").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err joins every validation error, or returns nil.
func (r *ValidationResult) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for i := range r.Errors {
		errs = append(errs, &r.Errors[i])
	}
	return errors.Join(errs...)
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.OutDir == "" {
		result.addError("outDir", cfg.OutDir, "outDir must not be empty")
	}

	switch {
	case cfg.Entry == "":
		result.addError("entry", cfg.Entry, "entry must not be empty")
	case filepath.Ext(cfg.Entry) != config.SourceExtension:
		result.addError("entry", cfg.Entry, "entry %q must have the %s extension", cfg.Entry, config.SourceExtension)
	}

	if cfg.Output == "" {
		result.addError("output", cfg.Output, "output must not be empty")
	}

	if strings.Trim(cfg.Indent, " \t") != "" {
		result.addError("indent", cfg.Indent, "indent %q may only contain spaces and tabs", cfg.Indent)
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format, "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	validateTagTables(cfg, result)
	validateIgnorePatterns(cfg, result)

	if cfg.OutDir != "" && filepath.Clean(cfg.OutDir) == filepath.Clean(cfg.Root) {
		result.addWarning("outDir", cfg.OutDir, "outDir is the source root; generated files will sit next to sources")
	}

	return result
}

func validateTagTables(cfg *config.Config, result *ValidationResult) {
	for _, table := range []struct{ field, path string }{
		{"tags.standard", cfg.Tags.Standard},
		{"tags.selfClosing", cfg.Tags.SelfClosing},
		{"tags.optionalSelfClosing", cfg.Tags.OptionalSelfClosing},
	} {
		if table.path != "" && !fileExists(table.path) {
			result.addError(table.field, table.path, "tag list %q does not exist", table.path)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}
