package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default sortbyext.yaml scaffold.
const initTemplate = `# sortbyext configuration
version: 1

# Concurrent copies. 0 picks 4 per CPU, -1 removes the limit.
workers: 0

# Folder that receives files without an extension (README, Makefile, .env).
# sentinel: no_extension

# Leave dot-files and dot-directories out of the copy.
# skip_hidden: false

# Exit non-zero when any file could not be copied.
# strict: false

# Lock <output>.lock so two runs do not sort into the same folder at once.
# lock: true

log:
  level: info       # debug, info, warn, error
  format: console   # console, json
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter sortbyext.yaml configuration",
	Long: `Creates a sortbyext.yaml file (or the path given by --config) with every
setting documented.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Adjust workers and the sentinel folder if needed")
		info("  2. Run 'sortbyext copy <source> <output>'")
		info("  3. Run 'sortbyext check <source> <output>' to verify the result")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
