package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/ui"
	"github.com/4ndymcfly/linuxmole/internal/uninstall"
)

var (
	uninstallPurge       bool
	uninstallListOrphans bool
	uninstallAutoremove  bool
	uninstallBroken      bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [package]",
	Short: "Remove packages completely",
	Long:  "Remove a package via apt, snap, or flatpak, optionally purging its user configs and data, then clean up unused dependencies.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}

		switch {
		case uninstallListOrphans:
			orphans, err := uninstall.Orphans()
			if err != nil {
				return err
			}
			if len(orphans) == 0 {
				fmt.Println(ui.LineOK("no orphaned packages found"))
				return nil
			}
			fmt.Println(ui.Section("Orphaned packages"))
			for _, pkg := range orphans {
				fmt.Println(ui.LineDo(pkg))
			}
			fmt.Println(ui.Dim(fmt.Sprintf("total: %d (remove with `lm uninstall --autoremove`)", len(orphans))))
			return nil

		case uninstallAutoremove:
			return runGuarded([]guard.Candidate{uninstall.AutoremoveCandidate()}, wl)

		case uninstallBroken:
			return runGuarded([]guard.Candidate{uninstall.FixBrokenCandidate()}, wl)
		}

		if len(args) == 0 {
			return fmt.Errorf("package name required (or use --list-orphans, --autoremove, --broken)")
		}
		pkg := args[0]

		cands, mgr, err := uninstall.BuildPlan(pkg, uninstallPurge)
		if err != nil {
			return err
		}
		fmt.Println(ui.Section(fmt.Sprintf("Uninstall %s (%s)", pkg, mgr)))
		return runGuarded(cands, wl)
	},
}

func init() {
	uninstallCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without uninstalling")
	uninstallCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "Also remove configs and per-user data")
	uninstallCmd.Flags().BoolVar(&uninstallListOrphans, "list-orphans", false, "List packages installed as automatic dependencies")
	uninstallCmd.Flags().BoolVar(&uninstallAutoremove, "autoremove", false, "Run apt autoremove")
	uninstallCmd.Flags().BoolVar(&uninstallBroken, "broken", false, "Fix broken packages")
}
