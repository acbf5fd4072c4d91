package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/sortbyext/internal/config"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "sortbyext <source> <output>",
	Short: "Copy a directory tree into folders named after file extensions",
	Long: `sortbyext walks a source directory tree and copies every file into a
folder of the output directory named after the file's extension:
src/a/x.txt lands in out/txt/x.txt, src/c.md in out/md/c.md. Files without
an extension go to the no_extension folder.

Running "sortbyext <source> <output>" is the same as "sortbyext copy".`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected <source> and <output>, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runCopy(cmd, args[0], args[1])
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "sortbyext %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to project config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides config)")

	addCopyFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// reportedError marks an error that has already been logged, so Execute
// does not print it a second time.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var re *reportedError
		if !errors.As(err, &re) {
			errorf("%v", err)
		}
		return err
	}
	return nil
}
