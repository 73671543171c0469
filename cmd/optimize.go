package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/optimize"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var (
	optAll        bool
	optDatabase   bool
	optNetwork    bool
	optServices   bool
	optClearCache bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Check and maintain system",
	Long:  "Rebuild system databases, flush network caches, and reset systemd state. The page cache drop needs its own flag and an extra confirmation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}

		sel := optimize.Selection{
			Database: optDatabase,
			Network:  optNetwork,
			Services: optServices,
		}
		if optAll || sel == (optimize.Selection{}) {
			sel = optimize.All()
		}

		fmt.Println(ui.Section("System optimization"))
		cands := optimize.BuildPlan(sel)

		if optClearCache {
			fmt.Println(ui.LineWarn("clearing the page cache can slow the system until caches rebuild"))
			if guard.Confirm("Really drop the page cache?", false, os.Stdin, os.Stdout) {
				cands = append(cands, optimize.PageCachePlan()...)
			} else {
				fmt.Println(ui.Dim("page cache drop skipped"))
			}
		}

		return runGuarded(cands, wl)
	},
}

func init() {
	optimizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview optimization actions")
	optimizeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	optimizeCmd.Flags().BoolVar(&optAll, "all", false, "All optimizations (default when nothing is selected)")
	optimizeCmd.Flags().BoolVar(&optDatabase, "database", false, "Rebuild system databases only")
	optimizeCmd.Flags().BoolVar(&optNetwork, "network", false, "Flush DNS/ARP and restart NetworkManager only")
	optimizeCmd.Flags().BoolVar(&optServices, "services", false, "Systemd housekeeping only")
	optimizeCmd.Flags().BoolVar(&optClearCache, "clear-cache", false, "Also drop the page cache (asks again)")
}
