// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Output formats written per bid request, besides the annotated request itself.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// EnvPrefix prefixes the environment variables that override config file values.
const EnvPrefix = "BIDCHECK_"

// Config represents the CLI configuration that can be loaded from a YAML or JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	InputDir  string `yaml:"input_dir,omitempty" json:"input_dir,omitempty"`   // Directory scanned for *.json bid requests
	OutputDir string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"` // Directory receiving one folder per checked file
	RulesPath string `yaml:"rules,omitempty" json:"rules,omitempty"`           // Custom rule catalog, built-in catalog when empty

	// Behavior
	Workers    int      `yaml:"workers,omitempty" json:"workers,omitempty" validate:"gte=0,lte=64"`
	Formats    []string `yaml:"formats,omitempty" json:"formats,omitempty" validate:"omitempty,unique,dive,oneof=html json"`
	DebounceMS int      `yaml:"debounce_ms,omitempty" json:"debounce_ms,omitempty" validate:"gte=0"` // Watch mode settle time
	Verbose    bool     `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

var validate = validator.New()

// Defaults returns the values used when neither the config file nor flags set a field.
func Defaults() Config {
	return Config{
		InputDir:   "bidRequests",
		OutputDir:  "Logs",
		Workers:    4,
		Formats:    []string{FormatHTML, FormatJSON},
		DebounceMS: 500,
	}
}

// LoadConfig loads configuration from a YAML or JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		err = json.Unmarshal(trimmed, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by defaults after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fe := validationErrs[0]
			return fmt.Errorf("config error: '%s' failed the '%s' check", jsonName(fe.StructField()), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.InputDir != "" && c.OutputDir != "" && filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("config error: 'input_dir' and 'output_dir' must differ")
	}

	// Validate file paths exist (if specified)
	if c.RulesPath != "" {
		if _, err := os.Stat(c.RulesPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.InputDir == "" {
		result.InputDir = defaults.InputDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.RulesPath == "" {
		result.RulesPath = defaults.RulesPath
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.DebounceMS == 0 {
		result.DebounceMS = defaults.DebounceMS
	}

	if len(result.Formats) == 0 {
		result.Formats = append([]string(nil), defaults.Formats...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv overrides fields from BIDCHECK_* variables found through lookup,
// typically os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "IN"); ok && v != "" {
		c.InputDir = v
	}
	if v, ok := lookup(EnvPrefix + "OUT"); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup(EnvPrefix + "RULES"); ok && v != "" {
		c.RulesPath = v
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %sWORKERS must be an integer: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v, ok := lookup(EnvPrefix + "FORMATS"); ok && v != "" {
		c.Formats = SplitFormats(v)
	}
	if v, ok := lookup(EnvPrefix + "VERBOSE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: %sVERBOSE must be a boolean: %w", EnvPrefix, err)
		}
		c.Verbose = b
	}
	return nil
}

// Debounce returns the watch mode settle time.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// HasFormat reports whether the given output format is enabled.
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// SplitFormats parses a comma separated format list such as "html,json".
func SplitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

func jsonName(field string) string {
	switch field {
	case "DebounceMS":
		return "debounce_ms"
	default:
		return strings.ToLower(field)
	}
}
