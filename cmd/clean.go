package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/4ndymcfly/linuxmole/internal/clean"
	"github.com/4ndymcfly/linuxmole/internal/config"
	"github.com/4ndymcfly/linuxmole/internal/docker"
	"github.com/4ndymcfly/linuxmole/internal/guard"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long:  "Deep cleanup of caches, logs, old kernels and docker leftovers to reclaim disk space.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cleanSystemCmd.RunE(cmd, args); err != nil {
			return err
		}
		fmt.Println()
		return cleanDockerCmd.RunE(cmd, args)
	},
}

var (
	cleanJournalTime string
	cleanJournalSize string
	cleanLogsDays    int
	cleanKernels     bool
	cleanKernelsKeep int
	cleanDevCaches   bool

	cleanImages     string
	cleanVolumes    bool
	cleanLogsMinMB  int64
	cleanBuildCache bool
)

var cleanSystemCmd = &cobra.Command{
	Use:   "system",
	Short: "Clean system caches, logs, and package leftovers",
	RunE: func(cmd *cobra.Command, args []string) error {
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}
		cfg, warns := config.Load()
		for _, w := range warns {
			fmt.Fprintln(os.Stderr, ui.LineWarn(w))
		}
		if cleanJournalTime == "" {
			cleanJournalTime = cfg.Clean.JournalTime
		}
		if cleanJournalSize == "" {
			cleanJournalSize = cfg.Clean.JournalSize
		}

		fmt.Println(ui.Section("System cleanup"))

		var cands []guard.Candidate
		cands = append(cands, clean.AptCandidates()...)
		cands = append(cands, clean.JournalCandidates(cleanJournalTime, cleanJournalSize)...)
		cands = append(cands, clean.TmpfilesCandidates()...)
		cands = append(cands, clean.RotatedLogCandidates("/var/log", cleanLogsDays)...)
		cands = append(cands, clean.SnapCandidates()...)
		cands = append(cands, clean.FlatpakCandidates()...)
		cands = append(cands, clean.CacheTargets("user")...)
		if cleanDevCaches {
			cands = append(cands, clean.CacheTargets("dev")...)
		}
		if cleanKernels {
			keep := cleanKernelsKeep
			if keep <= 0 {
				keep = cfg.Clean.KernelsKeep
			}
			cands = append(cands, clean.KernelCandidates(keep)...)
		}

		allowed, protected := guard.Filter(cands, wl)
		if path, err := clean.WriteDetailList(allowed, protected); err == nil {
			fmt.Println(ui.Dim("detail list: " + path))
		}
		return runGuarded(cands, wl)
	},
}

var cleanDockerCmd = &cobra.Command{
	Use:   "docker",
	Short: "Clean docker containers, images, networks, volumes and logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !docker.Available() {
			fmt.Println(ui.LineSkip("docker not available"))
			return nil
		}
		wl, err := loadWhitelist()
		if err != nil {
			return err
		}

		fmt.Println(ui.Section("Docker cleanup"))

		stopped, err := docker.StoppedContainers()
		if err != nil {
			return err
		}
		networks, err := docker.DanglingNetworks()
		if err != nil {
			return err
		}

		var images []docker.Image
		switch cleanImages {
		case "off":
		case "dangling":
			images, err = docker.DanglingImages()
			if err != nil {
				return err
			}
		case "unused":
			_, images, err = docker.UnusedImages()
			if err != nil {
				return err
			}
		case "all":
			dangling, unused, uerr := docker.UnusedImages()
			if uerr != nil {
				return uerr
			}
			images = append(dangling, unused...)
		default:
			return fmt.Errorf("invalid --images value %q (off|dangling|unused|all)", cleanImages)
		}

		var volumes []docker.Volume
		if cleanVolumes {
			volumes, err = docker.DanglingVolumes()
			if err != nil {
				return err
			}
		}

		cands := docker.PruneCandidates(stopped, networks, images, volumes, cleanBuildCache)

		if docker.CanReadLogs() {
			logs, err := docker.TruncateCandidates(cleanLogsMinMB * 1024 * 1024)
			if err == nil {
				cands = append(cands, logs...)
			}
		} else {
			fmt.Println(ui.LineSkip("container logs not readable (need root)"))
		}

		return runGuarded(cands, wl)
	},
}

func init() {
	for _, c := range []*cobra.Command{cleanCmd, cleanSystemCmd, cleanDockerCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
		c.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
	}

	cleanSystemCmd.Flags().StringVar(&cleanJournalTime, "journal-time", "", "Vacuum journal entries older than this (default from config)")
	cleanSystemCmd.Flags().StringVar(&cleanJournalSize, "journal-size", "", "Cap journal size (default from config)")
	cleanSystemCmd.Flags().IntVar(&cleanLogsDays, "logs-days", 7, "Delete rotated logs older than N days")
	cleanSystemCmd.Flags().BoolVar(&cleanKernels, "kernels", false, "Purge old kernels")
	cleanSystemCmd.Flags().IntVar(&cleanKernelsKeep, "kernels-keep", 0, "How many kernel versions to keep (default from config)")
	cleanSystemCmd.Flags().BoolVar(&cleanDevCaches, "dev", false, "Also clean developer tool caches (pip, npm, cargo, go)")

	cleanDockerCmd.Flags().StringVar(&cleanImages, "images", "dangling", "Which images to remove: off|dangling|unused|all")
	cleanDockerCmd.Flags().BoolVar(&cleanVolumes, "volumes", false, "Also remove dangling volumes")
	cleanDockerCmd.Flags().Int64Var(&cleanLogsMinMB, "logs-min-mb", 50, "Truncate container logs of at least N MiB")
	cleanDockerCmd.Flags().BoolVar(&cleanBuildCache, "build-cache", true, "Prune builder cache")

	cleanCmd.AddCommand(cleanSystemCmd)
	cleanCmd.AddCommand(cleanDockerCmd)
}
