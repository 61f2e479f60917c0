package config

import (
	"bytes"
	"fmt"
)

// Template formats accepted by GenerateTemplate.
const (
	TemplateJSON = "json"
	TemplateYAML = "yaml"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is the output format: "json" or "yaml".
	Format string

	// Full includes every setting, not just the html7.conf.json basics.
	Full bool
}

// GenerateTemplate creates the contents of a new configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", TemplateJSON:
		return generateJSONTemplate(opts)
	case TemplateYAML:
		return generateYAMLTemplate(opts), nil
	default:
		return nil, fmt.Errorf("unsupported template format: %q", opts.Format)
	}
}

func generateJSONTemplate(opts TemplateOptions) ([]byte, error) {
	defaults := NewConfig()
	cfg := &Config{
		Root:   defaults.Root,
		OutDir: defaults.OutDir,
		Minify: Bool(false),
	}
	if opts.Full {
		cfg = defaults
	}
	return cfg.ToJSON()
}

func generateYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Directory holding the entry file
root: "."

# Directory receiving generated documents
outDir: dist-html7

# Drop indentation and newlines from the output
minify: false
`)

	if !opts.Full {
		return buf.Bytes()
	}

	buf.WriteString(`
# Source compiled by 'html7 build' without arguments, and its output name
entry: index.html7
output: index.html

# Snippet inserted before </body> for documents with extended scripts
htmlAdd: public/html-add.txt

# Emit the generator comment before <html>
credits: true

# Accept <li/>, <td/> and other tags whose end tag HTML5 allows to omit
allowOptionalSelfClosing: false

# Indentation per nesting level
indent: "\t"

# Replace the built-in tag tables with newline-delimited lists
# tags:
#   standard: tags/standard.txt
#   selfClosing: tags/selfclosing.txt
#   optionalSelfClosing: tags/optional.txt

# Glob patterns for sources to skip
# ignore:
#   - "drafts/**"
`)

	return buf.Bytes()
}

// DefaultTemplateHeader returns the header comment for generated YAML configs.
func DefaultTemplateHeader() string {
	return `# html7 configuration
# See: https://github.com/yaklabco/html7`
}
