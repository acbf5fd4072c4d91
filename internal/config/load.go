package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/sortbyext/internal/logging"
)

// Load reads and validates a sortbyext.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// Parse reads a configuration file without validating it.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	if cfg.Workers < -1 {
		errs = append(errs, fmt.Sprintf("workers: %d is not allowed — use a positive number, 0 for the default or -1 for no limit", cfg.Workers))
	}

	if cfg.Sentinel != "" {
		switch {
		case cfg.Sentinel == "." || cfg.Sentinel == "..":
			errs = append(errs, fmt.Sprintf("sentinel: %q is not a usable folder name", cfg.Sentinel))
		case strings.ContainsAny(cfg.Sentinel, `/\`):
			errs = append(errs, fmt.Sprintf("sentinel: %q must be a single folder name without path separators", cfg.Sentinel))
		}
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, err.Error())
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Format)) {
	case "", "console", "json":
		// valid
	default:
		errs = append(errs, fmt.Sprintf("log format: invalid value %q — must be one of: console, json", cfg.Log.Format))
	}

	return errs
}
