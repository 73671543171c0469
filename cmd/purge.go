package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/clean"
	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Clean project build artifacts",
	Long:  "Find and remove build artifacts (node_modules, target, build, dist, .venv, __pycache__) from the configured project roots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}
		roots := config.LoadPurgePaths()

		fmt.Println(ui.Section("Project artifacts"))
		fmt.Println(ui.Dim(fmt.Sprintf("scanning %d project roots", len(roots))))

		return runGuarded(clean.PurgeCandidates(roots), wl)
	},
}

func init() {
	purgeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview without deleting")
	purgeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}
