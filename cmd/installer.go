package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/clean"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var installerCmd = &cobra.Command{
	Use:   "installer",
	Short: "Find and remove installer files",
	Long:  "Scan Downloads and Desktop for leftover installer files (.deb, .rpm, .AppImage, .run, .iso, archives).",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}
		fmt.Println(ui.Section("Installer files"))
		return runGuarded(clean.InstallerCandidates(), wl)
	},
}

func init() {
	installerCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without deleting")
	installerCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}
