// Package config defines the html7 configuration model.
// These types are pure data structures with no dependency on Viper or other
// config loaders.
package config

// Default values. They match the keys of a freshly generated html7.conf.json.
const (
	DefaultRoot    = "."
	DefaultOutDir  = "dist-html7"
	DefaultEntry   = "index.html7"
	DefaultOutput  = "index.html"
	DefaultHTMLAdd = "public/html-add.txt"
	DefaultIndent  = "\t"

	// SourceExtension is the extension of html7 source files.
	SourceExtension = ".html7"
	// OutputExtension replaces SourceExtension in generated file names.
	OutputExtension = ".html"
)

// OutputFormat specifies the build report format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f names a known report format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// TagTables names user-supplied tag list files. Empty paths select the
// built-in lists.
type TagTables struct {
	Standard            string `json:"standard,omitempty"            mapstructure:"standard"            yaml:"standard,omitempty"`
	SelfClosing         string `json:"selfClosing,omitempty"         mapstructure:"selfClosing"         yaml:"selfClosing,omitempty"`
	OptionalSelfClosing string `json:"optionalSelfClosing,omitempty" mapstructure:"optionalSelfClosing" yaml:"optionalSelfClosing,omitempty"`
}

// Config is the root configuration structure for html7.
//
// Boolean settings are pointers so a later layer can turn off what an
// earlier layer turned on. Use the accessor methods to read them.
type Config struct {
	// Root is the directory holding the entry file, relative to the
	// project directory.
	Root string `json:"root,omitempty" mapstructure:"root" yaml:"root,omitempty"`

	// OutDir receives generated documents.
	OutDir string `json:"outDir,omitempty" mapstructure:"outDir" yaml:"outDir,omitempty"`

	// Minify removes the indentation and newlines between fragments.
	Minify *bool `json:"minify,omitempty" mapstructure:"minify" yaml:"minify,omitempty"`

	// Entry is the source compiled when no paths are given.
	Entry string `json:"entry,omitempty" mapstructure:"entry" yaml:"entry,omitempty"`

	// Output is the file name written for Entry.
	Output string `json:"output,omitempty" mapstructure:"output" yaml:"output,omitempty"`

	// HTMLAdd is an optional snippet file inserted before </body> when a
	// document carries an extended script payload.
	HTMLAdd string `json:"htmlAdd,omitempty" mapstructure:"htmlAdd" yaml:"htmlAdd,omitempty"`

	// Credits adds the generator comment before <html>.
	Credits *bool `json:"credits,omitempty" mapstructure:"credits" yaml:"credits,omitempty"`

	// AllowOptionalSelfClosing accepts `<li/>` and other tags whose end tag
	// HTML5 allows to be omitted.
	AllowOptionalSelfClosing *bool `json:"allowOptionalSelfClosing,omitempty" mapstructure:"allowOptionalSelfClosing" yaml:"allowOptionalSelfClosing,omitempty"`

	// Indent is the per-level indentation of non-minified output.
	Indent string `json:"indent,omitempty" mapstructure:"indent" yaml:"indent,omitempty"`

	// Tags overrides the built-in tag tables.
	Tags TagTables `json:"tags,omitzero" mapstructure:"tags" yaml:"tags,omitempty"`

	// Ignore contains glob patterns for sources to skip.
	Ignore []string `json:"ignore,omitempty" mapstructure:"ignore" yaml:"ignore,omitempty"`

	// CLI-level options (not persisted to config files).

	// Format selects the build report format.
	Format OutputFormat `json:"-" mapstructure:"-" yaml:"-"`

	// Jobs is the number of parallel workers. 0 means GOMAXPROCS.
	Jobs int `json:"-" mapstructure:"-" yaml:"-"`

	// Check reports outputs that would change without writing them.
	Check bool `json:"-" mapstructure:"-" yaml:"-"`
}

// Bool returns a pointer to v, for building layered configs.
func Bool(v bool) *bool {
	return &v
}

// NewConfig returns a Config holding the defaults.
func NewConfig() *Config {
	return &Config{
		Root:                     DefaultRoot,
		OutDir:                   DefaultOutDir,
		Minify:                   Bool(false),
		Entry:                    DefaultEntry,
		Output:                   DefaultOutput,
		HTMLAdd:                  DefaultHTMLAdd,
		Credits:                  Bool(true),
		AllowOptionalSelfClosing: Bool(false),
		Indent:                   DefaultIndent,
		Format:                   FormatText,
	}
}

// MinifyEnabled reports whether minified output is requested.
func (c *Config) MinifyEnabled() bool {
	return c.Minify != nil && *c.Minify
}

// CreditsEnabled reports whether the credits comment is emitted. Credits
// default to on when unset.
func (c *Config) CreditsEnabled() bool {
	return c.Credits == nil || *c.Credits
}

// OptionalSelfClosingAllowed reports whether `<li/>`-style tags are accepted.
func (c *Config) OptionalSelfClosingAllowed() bool {
	return c.AllowOptionalSelfClosing != nil && *c.AllowOptionalSelfClosing
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Minify = cloneBool(c.Minify)
	clone.Credits = cloneBool(c.Credits)
	clone.AllowOptionalSelfClosing = cloneBool(c.AllowOptionalSelfClosing)
	if c.Ignore != nil {
		clone.Ignore = make([]string, len(c.Ignore))
		copy(clone.Ignore, c.Ignore)
	}
	return &clone
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
