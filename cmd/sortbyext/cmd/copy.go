package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bianoble/sortbyext/internal/config"
	"github.com/bianoble/sortbyext/internal/copier"
	"github.com/bianoble/sortbyext/internal/engine"
	"github.com/bianoble/sortbyext/internal/filelock"
	"github.com/bianoble/sortbyext/internal/provision"
	"github.com/bianoble/sortbyext/internal/report"
	"github.com/bianoble/sortbyext/internal/walk"
)

// Copy flags. They are registered on both the root and the copy command.
var (
	copyWorkers    int
	copySentinel   string
	copySkipHidden bool
	copyStrict     bool
	copyReport     string
	copyNoLock     bool
)

var copyCmd = &cobra.Command{
	Use:   "copy <source> <output>",
	Short: "Copy every file of a tree into per-extension folders",
	Long: `Walks <source> recursively and copies each file to
<output>/<extension>/<file name>. Folders are created on demand, existing
files are overwritten, and the source tree is never modified.

Files that share a name and extension end up on the same destination; one
of them wins and the collision is reported as a warning. A file that cannot
be copied is logged and skipped without stopping the rest of the batch.
Exit 0 unless the source folder is missing or --strict is set and a file
failed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCopy(cmd, args[0], args[1])
	},
}

func addCopyFlags(c *cobra.Command) {
	c.Flags().IntVar(&copyWorkers, "workers", 0, "concurrent copies (0 = 4 per CPU, -1 = unlimited)")
	c.Flags().StringVar(&copySentinel, "sentinel", "", "folder for files without an extension (default \"no_extension\")")
	c.Flags().BoolVar(&copySkipHidden, "skip-hidden", false, "skip dot-files and dot-directories")
	c.Flags().BoolVar(&copyStrict, "strict", false, "exit non-zero when any file could not be copied")
	c.Flags().StringVar(&copyReport, "report", "", "write a YAML report of the batch to this path")
	c.Flags().BoolVar(&copyNoLock, "no-lock", false, "do not lock the output folder against concurrent runs")
}

func init() {
	addCopyFlags(copyCmd)
	rootCmd.AddCommand(copyCmd)
}

// applyCopyFlags overlays explicitly passed flags on the loaded config.
func applyCopyFlags(cmd *cobra.Command, cfg *config.Config) {
	if flagSet(cmd, "workers") {
		cfg.Workers = copyWorkers
	}
	if flagSet(cmd, "sentinel") {
		cfg.Sentinel = copySentinel
	}
	if flagSet(cmd, "skip-hidden") {
		cfg.SkipHidden = config.Bool(copySkipHidden)
	}
	if flagSet(cmd, "strict") {
		cfg.Strict = config.Bool(copyStrict)
	}
	if flagSet(cmd, "no-lock") {
		cfg.Lock = config.Bool(!copyNoLock)
	}
}

func runCopy(cmd *cobra.Command, source, output string) error {
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

	eng := &engine.CopyEngine{
		Walker:  walk.New(walk.Options{SkipHidden: cfg.ShouldSkipHidden()}),
		Copier:  copier.New(provision.New(log), log, cfg.SentinelOrDefault()),
		Log:     log,
		Workers: cfg.Workers,
	}
	if cfg.LockEnabled() {
		eng.Guard = lockOutput
	}

	r, err := eng.Run(cmd.Context(), source, output)
	if err != nil {
		return reported(err)
	}

	if copyReport != "" {
		if err := report.Save(copyReport, r); err != nil {
			return err
		}
		detail("report written to %s", copyReport)
	}

	printCopySummary(r)

	if cfg.IsStrict() && r.Failed > 0 {
		return fmt.Errorf("copy incomplete: %d file(s) could not be copied", r.Failed)
	}
	return nil
}

func lockOutput(outputRoot string) (func() error, error) {
	fl, err := filelock.Acquire(outputRoot)
	if err != nil {
		return nil, err
	}
	return fl.Unlock, nil
}

func printCopySummary(r *engine.Report) {
	segments := r.Segments()
	status := paint(colorOK, "Copied")
	if r.Failed > 0 {
		status = paint(colorWarn, "Copied")
	}
	info("%s %d file(s), %s, into %d folder(s) in %s.",
		status, r.Succeeded, humanize.Bytes(uint64(r.Bytes)), len(segments),
		r.Duration().Round(time.Millisecond))

	if r.Failed > 0 {
		info("%s %d file(s) could not be copied.", paint(colorErr, "Failed"), r.Failed)
	}
	if n := len(r.Collisions()); n > 0 {
		info("%s %d destination(s) received more than one file.", paint(colorWarn, "Collided"), n)
	}

	if !verbose || quiet {
		return
	}

	names := make([]string, 0, len(segments))
	for name := range segments {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(segments[name])})
	}
	if len(rows) > 0 {
		fmt.Fprintln(stdout, renderTable([]string{"Folder", "Files"}, rows, []columnAlignment{alignLeft, alignRight},
			[]string{"total", strconv.Itoa(r.Succeeded)}))
	}

	if failures := r.Failures(); len(failures) > 0 {
		rows = rows[:0]
		for _, res := range failures {
			rows = append(rows, []string{res.Source, res.Err.Error()})
		}
		fmt.Fprintln(stdout, renderTable([]string{"Source", "Reason"}, rows, nil, nil))
	}

	for _, c := range r.Collisions() {
		detail("%s <- %d sources", c.Destination, len(c.Sources))
		for _, s := range c.Sources {
			detail("  %s", s)
		}
	}
}
