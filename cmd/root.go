package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/ui"
	"github.com/4ndymcfly/linuxmole/pkg/whitelist"
)

var (
	// Global flags
	debug     bool
	dryRun    bool
	assumeYes bool

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
	Use:   "lm",
	Short: "Safe maintenance for Linux and Docker",
	Long: `LinuxMole - Safe maintenance for Linux hosts running Docker.

All-in-one toolkit for system cleanup, disk analysis, package removal,
docker housekeeping, system optimization, and health reporting. Every
destructive operation previews its plan, honors the whitelist, and asks
before acting.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("LinuxMole - Safe maintenance for Linux and Docker")
		fmt.Println("Run 'lm --help' for available commands.")
		fmt.Println()
		fmt.Printf("Version %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	// Register all subcommands
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(installerCmd)
	rootCmd.AddCommand(whitelistCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadWhitelist loads the pattern set, surfacing load problems once.
func loadWhitelist() (*whitelist.Whitelist, error) {
	if err := config.EnsureFiles(); err != nil {
		return nil, err
	}
	path, err := config.WhitelistPath()
	if err != nil {
		return nil, err
	}
	wl := whitelist.Load(path)
	for _, warn := range wl.Warnings() {
		fmt.Fprintln(os.Stderr, ui.LineWarn(warn))
	}
	return wl, nil
}

// execOptions builds guard options from the shared flags.
func execOptions() guard.Options {
	return guard.Options{DryRun: dryRun, AssumeYes: assumeYes}
}

// runGuarded filters and executes a candidate batch, translating a
// declined confirmation into a quiet exit.
func runGuarded(cands []guard.Candidate, wl *whitelist.Whitelist) error {
	allowed, protected := guard.Filter(cands, wl)
	guard.ShowProtected(os.Stdout, protected)
	_, err := guard.Execute(allowed, len(protected), execOptions())
	if errors.Is(err, guard.ErrAborted) {
		fmt.Println(ui.Dim("Cancelled."))
		return nil
	}
	return err
}
