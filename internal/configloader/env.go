package configloader

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yaklabco/html7/pkg/config"
)

// envBinding maps a config key to its environment variable.
type envBinding struct {
	key         string
	env         string
	description string
}

// envBindings lists every environment variable html7 reads.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envBindings = []envBinding{
	{"root", "HTML7_ROOT", "Directory holding the entry file"},
	{"outDir", "HTML7_OUT_DIR", "Directory receiving generated documents"},
	{"minify", "HTML7_MINIFY", "Minify output: true or false"},
	{"entry", "HTML7_ENTRY", "Entry source file name"},
	{"output", "HTML7_OUTPUT", "Output file name for the entry"},
	{"htmlAdd", "HTML7_HTML_ADD", "Path of the html-add snippet"},
	{"credits", "HTML7_CREDITS", "Emit the credits comment: true or false"},
	{"allowOptionalSelfClosing", "HTML7_ALLOW_OPTIONAL_SELF_CLOSING", "Accept <li/>-style tags: true or false"},
	{"indent", "HTML7_INDENT", "Indentation per nesting level"},
	{"tags.standard", "HTML7_TAGS_STANDARD", "Path of the standard tag list"},
	{"tags.selfClosing", "HTML7_TAGS_SELF_CLOSING", "Path of the self-closing tag list"},
	{"tags.optionalSelfClosing", "HTML7_TAGS_OPTIONAL_SELF_CLOSING", "Path of the optional self-closing tag list"},
	{"ignore", "HTML7_IGNORE", "Comma-separated list of ignore patterns"},
}

// FromEnv reads the HTML7_* environment variables into a config layer.
// Unset variables leave their fields zero so the layer merges cleanly.
func FromEnv() (*config.Config, error) {
	v := viper.New()
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	cfg.Ignore = trimList(cfg.Ignore)
	return cfg, nil
}

// trimList trims comma-split items and drops empty ones.
func trimList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadFromEnv applies environment variable overrides to cfg in place.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	env, err := FromEnv()
	if err != nil {
		return err
	}
	*cfg = *merge(cfg, env)
	return nil
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Key         string
	Description string
}

// ListEnvVars returns every supported environment variable in a stable order.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envBindings))
	for _, b := range envBindings {
		vars = append(vars, EnvVar{Name: b.env, Key: b.key, Description: b.description})
	}
	return vars
}
