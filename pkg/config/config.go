// Package config loads the optional tool configuration file. Flags always
// take precedence over configuration values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = ".lambda-pp.yaml"

// Config carries settings shared by lambda-pp and lambda-cc.
type Config struct {
	// Keyword overrides the identifier that introduces a lambda.
	Keyword string `yaml:"keyword"`

	// ShortSyntax toggles the `=> expression;` form. Unset keeps the
	// default (enabled).
	ShortSyntax *bool `yaml:"short_syntax"`

	// Driver configures how lambda-cc locates its collaborators.
	Driver Driver `yaml:"driver"`
}

// Driver holds lambda-cc discovery settings.
type Driver struct {
	// Compilers are tried in order when neither CC nor CXX is set.
	Compilers []string `yaml:"compilers"`

	// SearchPaths are the directories scanned for a compiler binary.
	SearchPaths []string `yaml:"search_paths"`

	// PreprocessorPaths are the directories scanned for lambda-pp when
	// LAMBDA_PP is not set.
	PreprocessorPaths []string `yaml:"preprocessor_paths"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault loads DefaultFileName from the working directory, returning an
// empty configuration when the file does not exist.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultFileName); err != nil {
		return &Config{}, nil
	}
	return Load(DefaultFileName)
}

func (c *Config) validate() error {
	if c.Keyword != "" && !isIdentifier(c.Keyword) {
		return fmt.Errorf("keyword %q is not a valid identifier", c.Keyword)
	}
	return nil
}

func isIdentifier(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return len(s) > 0
}
