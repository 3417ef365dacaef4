// Package config loads settings for the tern command from a TOML or YAML file.
//
// The format is chosen by file extension: .yaml and .yml are YAML, anything
// else is TOML. Fields missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/tern/parser"
)

// Format is a configuration file format.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// Output formats accepted by Output.Format.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the full tern configuration.
type Config struct {
	Parser   Parser `toml:"parser" yaml:"parser"`
	Output   Output `toml:"output" yaml:"output"`
	LogLevel string `toml:"log_level" yaml:"log_level"`
}

// Parser holds parser limits.
type Parser struct {
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

// Output controls how results are printed.
type Output struct {
	Format string `toml:"format" yaml:"format"`
	Color  bool   `toml:"color" yaml:"color"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Parser:   Parser{MaxDepth: parser.DefaultMaxDepth},
		Output:   Output{Format: OutputText, Color: true},
		LogLevel: "warn",
	}
}

// ParserOptions converts the parser section into parser.Options.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{MaxDepth: c.Parser.MaxDepth}
}

// candidates are the file names Discover looks for, in order.
var candidates = []string{"tern.toml", "tern.yaml", "tern.yml"}

// Discover returns the path of the first config file found in dir, or "" if
// there is none.
func Discover(dir string) string {
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Load reads and validates the file at path. An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := Decode(content, detectFormat(path), cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses content in the given format over the values already in cfg.
func Decode(content []byte, format Format, cfg *Config) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return fmt.Errorf("TOML parse error: %w", err)
		}
	}
	return nil
}

// detectFormat determines the configuration format from file extension.
func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Validate reports every invalid field in cfg.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.Parser.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("parser.max_depth must be positive, got %d", cfg.Parser.MaxDepth))
	}
	switch cfg.Output.Format {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("output.format must be text, json or yaml, got %q", cfg.Output.Format))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel))
	}
	return errors.Join(errs...)
}
