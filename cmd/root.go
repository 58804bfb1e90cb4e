// Package cmd wires the cobra command tree for antichonk.
package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chonklab/antichonk/internal/core"
	"github.com/chonklab/antichonk/internal/review"
	"github.com/chonklab/antichonk/internal/scan"
	"github.com/chonklab/antichonk/internal/session"
)

var (
	// Global flags
	debug  bool
	dryRun bool

	// Root command flags
	plainMode   bool
	minSizeStr  string
	excludeDirs []string

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "antichonk DIRECTORY ORDER_BY",
	Short: "Interactively reclaim disk space, chonkiest files first",
	Long: heredoc.Doc(`
		antichonk scans a directory tree and walks you through its files one at
		a time, largest or stalest first, so you can decide what goes.

		ORDER_BY selects the presentation order:
		  size   largest file first
		  age    least recently modified file first

		For each file you choose one of:
		  d  delete the file
		  D  delete the directory which contains the file
		  s  skip this file and go on to the next one
		  S  skip this directory and go on to the next one
		  ?  print this help menu
		  q  quit without reviewing the remaining files

		Skipping or deleting a directory suppresses every remaining file under
		it for the rest of the run. Run elevated (e.g. under sudo) if the tree
		contains files you cannot otherwise delete.
	`),
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         runReview,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report deletions without performing them")
	rootCmd.Flags().BoolVar(&plainMode, "plain", false, "Use the line-based prompt instead of the full-screen TUI")
	rootCmd.Flags().StringVar(&minSizeStr, "min-size", "", "Minimum candidate size (e.g., 100MB)")
	rootCmd.Flags().StringSliceVar(&excludeDirs, "exclude", nil, "Directory names to exclude from the scan")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	order, err := scan.ParseOrder(args[1])
	if err != nil {
		return err
	}

	var minSize int64
	if minSizeStr != "" {
		size, err := humanize.ParseBytes(minSizeStr)
		if err != nil {
			return fmt.Errorf("invalid min-size: %w", err)
		}
		minSize = int64(size)
	}

	interactive := !plainMode && isatty.IsTerminal(os.Stdout.Fd())

	// Scan progress on stderr, TTY only.
	var progressHook func(files, bytes int64)
	if interactive && !debug {
		fmt.Fprint(os.Stderr, "\033[?25l")
		defer fmt.Fprint(os.Stderr, "\033[?25h")
		progressHook = func(files, bytes int64) {
			fmt.Fprintf(os.Stderr, "\r\033[2KScanning… %d files, %s\r",
				files, humanize.IBytes(uint64(bytes)))
		}
	}

	records, stats, err := scan.Run(cmd.Context(), scan.Options{
		Root:    args[0],
		Order:   order,
		MinSize: minSize,
		Exclude: excludeDirs,
		Debug:   debug,
	}, progressHook)

	if progressHook != nil {
		fmt.Fprint(os.Stderr, "\r\033[2K\r")
	}
	if err != nil {
		return err
	}

	if !core.IsElevated() && !dryRun {
		fmt.Fprintln(os.Stderr, "antichonk: not running elevated; some deletions may fail with permission errors")
	}

	if len(records) == 0 {
		fmt.Printf("No candidate files found under %s.\n", stats.Root)
		return nil
	}

	var deleter core.Deleter = core.OSDeleter{}
	if dryRun {
		deleter = &core.DryRunDeleter{}
	}

	sess := session.New(stats.Root, records, deleter)

	var sum session.Summary
	if interactive {
		sum, err = review.Run(review.Config{
			Root:   stats.Root,
			Order:  order,
			DryRun: dryRun,
			Stats:  stats,
		}, sess)
		if err != nil {
			return fmt.Errorf("running review: %w", err)
		}
	} else {
		color := isatty.IsTerminal(os.Stdout.Fd())
		sum = review.RunPlain(sess, os.Stdin, os.Stdout, color)
	}

	printSummary(sum)
	return nil
}

// printSummary reports the run outcome after the frontend has exited.
func printSummary(sum session.Summary) {
	verb := "Reclaimed"
	if dryRun {
		verb = "Would have reclaimed"
	}
	fmt.Printf("%s %s: %d files and %d directories deleted, %d files and %d directories skipped.\n",
		verb, humanize.IBytes(uint64(sum.BytesReclaimed)),
		sum.DeletedFiles, sum.DeletedDirs, sum.SkippedFiles, sum.SkippedDirs)
	for _, warning := range sum.Warnings {
		fmt.Fprintln(os.Stderr, "warning: "+warning)
	}
}
