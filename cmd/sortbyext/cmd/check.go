package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/sortbyext/internal/config"
	"github.com/bianoble/sortbyext/internal/engine"
	"github.com/bianoble/sortbyext/internal/walk"
)

var checkCmd = &cobra.Command{
	Use:   "check <source> <output>",
	Short: "Verify that an output folder holds every file of a source tree",
	Long: `Computes where each source file would be copied and compares the
destination's content hash with the source. Reports missing and drifted
files. Exit 0 if everything matches; exit non-zero otherwise. Suitable for
CI pipelines.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hr, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := hr.Config
		applyCopyFlags(cmd, cfg)
		if errs := config.Validate(cfg); len(errs) > 0 {
			return &config.ValidationError{Errors: errs}
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		eng := &engine.CheckEngine{
			Walker:   walk.New(walk.Options{SkipHidden: cfg.ShouldSkipHidden()}),
			Log:      log,
			Sentinel: cfg.SentinelOrDefault(),
		}

		result, err := eng.Check(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		for _, c := range result.Collisions {
			detail("collision %s <- %d sources", c.Destination, len(c.Sources))
		}

		if result.Clean {
			info("All %d file(s) are in place.", result.Checked)
			return nil
		}

		var rows [][]string
		for _, m := range result.Missing {
			rows = append(rows, []string{paint(colorErr, "missing"), m})
		}
		for _, d := range result.Drifted {
			rows = append(rows, []string{paint(colorWarn, "drifted"), d.Path})
			detail("expected: %v", d.Expected)
			detail("actual:   %s", d.Actual)
		}
		for _, u := range result.Unreadable {
			rows = append(rows, []string{paint(colorErr, "unreadable"), u})
		}
		if !quiet {
			fmt.Fprintln(stdout, renderTable([]string{"Status", "Path"}, rows, nil, nil))
		}

		return fmt.Errorf("check failed: %d file(s) out of sync", len(rows))
	},
}

func init() {
	checkCmd.Flags().StringVar(&copySentinel, "sentinel", "", "folder for files without an extension (default \"no_extension\")")
	checkCmd.Flags().BoolVar(&copySkipHidden, "skip-hidden", false, "skip dot-files and dot-directories")
	rootCmd.AddCommand(checkCmd)
}
