package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/bianoble/sortbyext/internal/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info [output]",
	Short: "Show effective settings and the contents of an output folder",
	Long: `Displays the sortbyext version, the config chain and the effective
settings. Given an output folder, also lists its extension folders with file
counts and sizes, and whether another run currently holds its lock.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hr, err := loadConfig()
		if err != nil {
			return err
		}

		var output string
		if len(args) == 1 {
			output = args[0]
		}

		result, err := engine.Info(version, hr.Config, output)
		if err != nil {
			return err
		}
		for _, l := range hr.Layers {
			result.ConfigChain = append(result.ConfigChain, engine.ConfigLayerStatus{
				Level:  string(l.Level),
				Path:   l.Path,
				Loaded: l.Loaded,
			})
		}

		printInfo(result)
		return nil
	},
}

func printInfo(r *engine.InfoResult) {
	fmt.Fprintf(stdout, "sortbyext %s\n", r.Version)

	if len(r.ConfigChain) > 0 {
		fmt.Fprintln(stdout, "  config chain:")
		for _, layer := range r.ConfigChain {
			status := "not found"
			if layer.Loaded {
				status = "loaded"
			}
			fmt.Fprintf(stdout, "    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
		}
	}

	workers := strconv.Itoa(r.Workers)
	if r.Workers == engine.Unbounded {
		workers = "unlimited"
	}
	fmt.Fprintf(stdout, "  workers:       %s\n", workers)
	fmt.Fprintf(stdout, "  sentinel:      %s\n", r.Sentinel)
	fmt.Fprintf(stdout, "  skip hidden:   %t\n", r.SkipHidden)
	fmt.Fprintf(stdout, "  strict:        %t\n", r.Strict)
	fmt.Fprintf(stdout, "  lock:          %t\n", r.Lock)

	if r.Output == "" {
		return
	}

	fmt.Fprintf(stdout, "\nOutput %s\n", r.Output)
	state := "free"
	if r.Busy {
		state = paint(colorWarn, "in use")
	}
	fmt.Fprintf(stdout, "  lock file:     %s (%s)\n", r.LockPath, state)

	if len(r.Folders) == 0 {
		fmt.Fprintln(stdout, "  no extension folders")
		return
	}

	rows := make([][]string, 0, len(r.Folders))
	var files int
	var bytes int64
	for _, f := range r.Folders {
		rows = append(rows, []string{f.Name, strconv.Itoa(f.Files), humanize.Bytes(uint64(f.Bytes))})
		files += f.Files
		bytes += f.Bytes
	}
	fmt.Fprintln(stdout, renderTable([]string{"Folder", "Files", "Size"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		[]string{"total", strconv.Itoa(files), humanize.Bytes(uint64(bytes))}))
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
