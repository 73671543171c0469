package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/status"
)

var statusNoDocker bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "System health report",
	Long:  "One-shot report: CPU, memory, disk, network, health score, journald usage, failed units, package hygiene, kernels, reboot flag, and docker summary.",
	Run: func(cmd *cobra.Command, args []string) {
		status.Report(os.Stdout, !statusNoDocker)
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusNoDocker, "no-docker", false, "Skip the docker summary")
}
