package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlIndent is the indentation used when writing YAML.
const yamlIndent = 2

// ToYAML serializes the configuration to YAML format.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToJSON serializes the configuration in the html7.conf.json layout.
func (c *Config) ToJSON() ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// FromJSON parses a configuration from JSON bytes.
func FromJSON(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

// Parse decodes data according to the extension of path: `.json` files are
// JSON, everything else is YAML.
func Parse(path string, data []byte) (*Config, error) {
	if IsJSONPath(path) {
		return FromJSON(data)
	}
	return FromYAML(data)
}

// IsJSONPath reports whether path names a JSON config file.
func IsJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
