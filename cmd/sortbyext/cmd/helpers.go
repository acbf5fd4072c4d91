package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bianoble/sortbyext/internal/config"
	"github.com/bianoble/sortbyext/internal/logging"
)

// stdout and stderr receive command output. Tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig loads the system, user and project config layers and applies
// the global flags on top.
func loadConfig() (*config.HierarchicalResult, error) {
	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath: configPath,
		NoInherit:   config.EnvNoInherit(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}

	cfg := hr.Config
	switch {
	case verbose:
		cfg.Log.Level = "debug"
	case quiet:
		cfg.Log.Level = "error"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return hr, nil
}

// newLogger builds the process logger from the effective config.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		NoColor: noColor,
		Writer:  os.Stderr,
	})
}

// flagSet reports whether the user passed the named flag on the command line.
func flagSet(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(stderr, "error: "+format+"\n", args...)
}

// paint colors s unless color output is disabled.
func paint(c *color.Color, s string) string {
	if !logging.ColorEnabled(stdout, noColor) {
		return s
	}
	return c.Sprint(s)
}

var (
	colorOK   = color.New(color.FgGreen)
	colorWarn = color.New(color.FgYellow)
	colorErr  = color.New(color.FgRed, color.Bold)
)
