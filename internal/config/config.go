// Package config handles loading rewriter configuration from files.
//
// Configuration can be specified in a YAML file named irsubst.yaml,
// .irsubstrc or .irsubstrc.yaml. The config file is searched for in the
// current directory and parent directories. Environment variables override
// the file, and CLI flags override both.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoDaniel/irsubst/internal/driver"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Form is the IR taxonomy documents are parsed into: expr or stmt
	Form *string `yaml:"form,omitempty"`

	// Strict reports statements the rewriter cannot enter as errors
	Strict *bool `yaml:"strict,omitempty"`

	// MatchIdentity matches variables by identity instead of by name
	MatchIdentity *bool `yaml:"matchIdentity,omitempty"`

	// MinifyWhitespace prints output without optional whitespace
	MinifyWhitespace *bool `yaml:"minifyWhitespace,omitempty"`

	// Color selects colored diagnostics: auto, always or never
	Color *string `yaml:"color,omitempty"`

	// Substitutions are applied before any given on the command line
	Substitutions []Substitution `yaml:"substitutions,omitempty"`
}

// Substitution is one configured rewrite.
type Substitution struct {
	Var    string `yaml:"var"`
	With   string `yaml:"with"`
	Tensor string `yaml:"tensor,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"irsubst.yaml",
	".irsubstrc",
	".irsubstrc.yaml",
}

// Environment variables read by ApplyEnv.
const (
	EnvStrict = "IRSUBST_STRICT"
	EnvColor  = "IRSUBST_COLOR"
	EnvForm   = "IRSUBST_FORM"
)

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML config. Unknown keys are errors. An empty document
// is an empty config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Form != nil {
		if _, err := driver.ParseForm(*c.Form); err != nil {
			return err
		}
	}
	if c.Color != nil {
		if _, err := ParseColorMode(*c.Color); err != nil {
			return err
		}
	}
	for i, s := range c.Substitutions {
		if s.Var == "" || s.With == "" {
			return fmt.Errorf("substitution %d: var and with are required", i+1)
		}
	}
	return nil
}

// ApplyEnv overrides config values with the IRSUBST_* environment
// variables that are set. A nil config is treated as empty.
// The environment is re-read on every call.
func (c *Config) ApplyEnv() (*Config, error) {
	env.Load()

	out := &Config{}
	if c != nil {
		*out = *c
	}
	if env.Has(EnvStrict) {
		strict := env.Bool(EnvStrict)
		out.Strict = &strict
	}
	if env.Has(EnvColor) {
		color := env.Str(EnvColor)
		if _, err := ParseColorMode(color); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvColor, err)
		}
		out.Color = &color
	}
	if env.Has(EnvForm) {
		form := env.Str(EnvForm)
		if _, err := driver.ParseForm(form); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvForm, err)
		}
		out.Form = &form
	}
	return out, nil
}

// ToOptions converts a Config to driver.Options, using defaults for unset fields.
func (c *Config) ToOptions() driver.Options {
	opts := driver.DefaultOptions()

	if c.Form != nil {
		// Validated on load.
		opts.Form, _ = driver.ParseForm(*c.Form)
	}
	if c.Strict != nil {
		opts.Strict = *c.Strict
	}
	if c.MatchIdentity != nil {
		opts.MatchIdentity = *c.MatchIdentity
	}
	if c.MinifyWhitespace != nil {
		opts.MinifyWhitespace = *c.MinifyWhitespace
	}
	for _, s := range c.Substitutions {
		opts.Substitutions = append(opts.Substitutions, driver.Substitution{
			Var:    s.Var,
			With:   s.With,
			Tensor: s.Tensor,
		})
	}

	return opts
}

// MergeOptions holds CLI flags. Nil means not specified on the CLI.
type MergeOptions struct {
	Form             *string
	Strict           *bool
	MatchIdentity    *bool
	MinifyWhitespace *bool
	Color            *string
	Substitutions    []driver.Substitution
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) (driver.Options, ColorMode, error) {
	opts := c.ToOptions()
	color := ColorAuto
	if c.Color != nil {
		color, _ = ParseColorMode(*c.Color)
	}

	// CLI overrides
	if cli.Form != nil {
		form, err := driver.ParseForm(*cli.Form)
		if err != nil {
			return opts, color, err
		}
		opts.Form = form
	}
	if cli.Strict != nil {
		opts.Strict = *cli.Strict
	}
	if cli.MatchIdentity != nil {
		opts.MatchIdentity = *cli.MatchIdentity
	}
	if cli.MinifyWhitespace != nil {
		opts.MinifyWhitespace = *cli.MinifyWhitespace
	}
	if cli.Color != nil {
		mode, err := ParseColorMode(*cli.Color)
		if err != nil {
			return opts, color, err
		}
		color = mode
	}
	// CLI substitutions run after the configured ones
	opts.Substitutions = append(opts.Substitutions, cli.Substitutions...)

	return opts, color, nil
}

// ColorMode controls colored diagnostics.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return "auto"
}

// ParseColorMode converts auto, always or never to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("unknown color mode %q (want auto, always or never)", s)
}

// Enabled resolves the mode for an output stream.
func (m ColorMode) Enabled(isTerminal bool) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal
}
