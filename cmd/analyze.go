package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/analyze"
	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var (
	analyzeTop int
	analyzeTUI bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Explore disk usage",
	Long:  "Interactive disk space analyzer. Shows one directory level at a time with aggregate subdirectory sizes; drill in and out with the arrow keys.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, warns := config.Load()
		for _, w := range warns {
			fmt.Fprintln(os.Stderr, ui.LineWarn(w))
		}
		path := cfg.Paths.AnalyzeDefault
		if len(args) > 0 {
			path = args[0]
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		if analyzeTop > 0 || (!analyzeTUI && !interactive) {
			return analyze.PrintTop(os.Stdout, analyze.NewScanner(8), abs, analyzeTop)
		}

		wl, err := loadWhitelist()
		if err != nil {
			return err
		}
		return analyze.Run(abs, wl)
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 0, "Print the N largest entries instead of the TUI")
	analyzeCmd.Flags().BoolVar(&analyzeTUI, "tui", false, "Force the interactive analyzer even when piped")
}
