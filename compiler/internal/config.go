package internal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config controls one run of the checker. It's read from an icc.yaml file, command line flags override it.
type Config struct {
	// Library is the path of the library signature file. Its class is added in front of the program's classes.
	Library string `yaml:"library,omitempty"`

	DumpSymtab bool `yaml:"dump_symtab"`

	// StopAtFirstFailingPass skips the remaining passes once a pass reports an error.
	StopAtFirstFailingPass bool `yaml:"stop_at_first_failing_pass"`

	Format     string `yaml:"format"`
	Color      string `yaml:"color"`
	Warnings   bool   `yaml:"warnings"`
	EchoSource bool   `yaml:"echo_source"`
	Verbose    bool   `yaml:"verbose"`
}

func DefaultConfig() *Config {
	return &Config{
		Format:     FormatText,
		Color:      ColorAuto,
		Warnings:   true,
		EchoSource: true,
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses config content, keys that are missing keep their default value.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("unknown format %q, expected %q or %q", cfg.Format, FormatText, FormatYAML)
	}
	switch cfg.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", cfg.Color)
	}
	return nil
}
