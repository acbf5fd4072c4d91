package config

import "github.com/bianoble/sortbyext/internal/classify"

// Config represents the sortbyext.yaml configuration file. Every field is
// optional; unset fields fall back to the defaults below.
type Config struct {
	Version int `yaml:"version"`

	// Workers caps concurrent copies. 0 picks a default from the CPU count,
	// -1 removes the cap.
	Workers int `yaml:"workers,omitempty"`

	// Sentinel names the folder that receives files without an extension.
	Sentinel string `yaml:"sentinel,omitempty"`

	SkipHidden *bool `yaml:"skip_hidden,omitempty"`
	Strict     *bool `yaml:"strict,omitempty"`
	Lock       *bool `yaml:"lock,omitempty"`

	Log Log `yaml:"log,omitempty"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // console, json
}

// Default returns the configuration used when no config file is found.
func Default() *Config {
	return &Config{
		Version:  1,
		Sentinel: classify.DefaultSentinel,
		Log:      Log{Level: "info", Format: "console"},
	}
}

// SentinelOrDefault returns the configured sentinel folder name.
func (c *Config) SentinelOrDefault() string {
	if c.Sentinel == "" {
		return classify.DefaultSentinel
	}
	return c.Sentinel
}

// ShouldSkipHidden reports whether dot-files are left out. Default false.
func (c *Config) ShouldSkipHidden() bool {
	return c.SkipHidden != nil && *c.SkipHidden
}

// IsStrict reports whether per-file failures fail the process. Default false.
func (c *Config) IsStrict() bool {
	return c.Strict != nil && *c.Strict
}

// LockEnabled reports whether the output root is locked during a run.
// Default true.
func (c *Config) LockEnabled() bool {
	return c.Lock == nil || *c.Lock
}

// Bool returns a pointer to b, for filling optional fields.
func Bool(b bool) *bool {
	return &b
}
