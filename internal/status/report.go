package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/4ndymcfly/linuxmole/internal/clean"
	"github.com/4ndymcfly/linuxmole/internal/docker"
	"github.com/4ndymcfly/linuxmole/internal/execx"
	"github.com/4ndymcfly/linuxmole/internal/ui"
)

// Report writes the full status report. withDocker adds the docker
// summary when the CLI is present.
func Report(w io.Writer, withDocker bool) {
	m := Collect(time.Second)

	fmt.Fprintln(w, ui.Section("System status"))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Uptime  %s", formatUptime(m.Uptime))))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Load    %.2f %.2f %.2f", m.Load1, m.Load5, m.Load15)))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Memory  %s / %s (%s available)",
		ui.FormatSize(int64(m.MemUsed)), ui.FormatSize(int64(m.MemTotal)), ui.FormatSize(int64(m.MemAvail)))))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Disk /  %s / %s (%s free)",
		ui.FormatSize(int64(m.DiskUsed)), ui.FormatSize(int64(m.DiskTotal)), ui.FormatSize(int64(m.DiskFree)))))

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Health snapshot"))
	fmt.Fprintf(w, "  %-7s %s %5.1f%%\n", "CPU", ui.GradientBar(m.CPUPercent, 20), m.CPUPercent)
	fmt.Fprintf(w, "  %-7s %s %5.1f%%\n", "Memory", ui.GradientBar(m.MemUsedPct, 20), m.MemUsedPct)
	fmt.Fprintf(w, "  %-7s %s %5.1f%%\n", "Disk", ui.GradientBar(m.DiskUsedPct, 20), m.DiskUsedPct)

	score := HealthScore(m.CPUPercent, m.MemUsedPct, m.DiskUsedPct)
	color := ui.ColorSuccess
	switch {
	case score < 50:
		color = ui.ColorError
	case score < 80:
		color = ui.ColorWarning
	}
	fmt.Fprintln(w, "  "+lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(fmt.Sprintf("Health %s %d", ui.IconBullet, score)))

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Disk I/O"))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Read  %s/s", ui.FormatSize(int64(m.ReadBps)))))
	fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("Write %s/s", ui.FormatSize(int64(m.WriteBps)))))

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Network"))
	if len(m.Interfaces) == 0 {
		fmt.Fprintln(w, ui.LineSkip("no interface traffic measured"))
	}
	for i, iface := range m.Interfaces {
		if i >= 5 {
			break
		}
		fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("%-10s ↓ %9s/s  ↑ %9s/s",
			iface.Name, ui.FormatSize(int64(iface.RecvBps)), ui.FormatSize(int64(iface.SendBps)))))
	}

	reportJournald(w)
	reportUnits(w)
	reportProcesses(w)
	reportPackages(w)
	reportKernels(w)
	reportReboot(w)
	if withDocker {
		reportDocker(w)
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	mins := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

func reportJournald(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Journald"))
	if !execx.Which("journalctl") {
		fmt.Fprintln(w, ui.LineSkip("journalctl not available"))
		return
	}
	out, err := execx.Capture("journalctl", "--disk-usage")
	if err != nil {
		fmt.Fprintln(w, ui.LineWarn("could not read journald usage"))
		return
	}
	fmt.Fprintln(w, ui.LineDo(out))
}

// FailedUnits lists systemd units in failed state.
func FailedUnits() ([]string, bool) {
	if !execx.Which("systemctl") {
		return nil, false
	}
	lines, err := execx.CaptureLines("systemctl", "--failed", "--no-legend", "--no-pager")
	if err != nil {
		return nil, false
	}
	var units []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 4 && strings.EqualFold(fields[2], "failed") {
			units = append(units, fields[0])
		}
	}
	return units, true
}

func reportUnits(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("System health"))
	units, ok := FailedUnits()
	switch {
	case !ok:
		fmt.Fprintln(w, ui.LineSkip("systemctl not available"))
	case len(units) == 0:
		fmt.Fprintln(w, ui.LineOK("no failed units"))
	default:
		fmt.Fprintln(w, ui.LineWarn(fmt.Sprintf("failed units: %d", len(units))))
		for i, u := range units {
			if i >= 10 {
				fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("… and %d more", len(units)-10)))
				break
			}
			fmt.Fprintln(w, ui.LineDo(u))
		}
	}
}

func reportProcesses(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Top processes"))
	if !execx.Which("ps") {
		fmt.Fprintln(w, ui.LineSkip("ps not available"))
		return
	}
	for _, sortKey := range []string{"-%cpu", "-%mem"} {
		lines, err := execx.CaptureLines("ps", "-eo", "pid,comm,%cpu,%mem", "--sort="+sortKey)
		if err != nil || len(lines) < 2 {
			continue
		}
		fmt.Fprintln(w, ui.Dim("  by "+strings.TrimPrefix(sortKey, "-")))
		for i, line := range lines[1:] {
			if i >= 5 {
				break
			}
			fmt.Fprintln(w, "    "+strings.Join(strings.Fields(line), "  "))
		}
	}
}

// AutoremoveCount simulates apt-get autoremove and counts removals.
func AutoremoveCount() (int, bool) {
	if !execx.Which("apt-get") {
		return 0, false
	}
	lines, err := execx.CaptureLines("apt-get", "-s", "autoremove")
	if err != nil {
		return 0, false
	}
	count := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "Remv ") {
			count++
		}
	}
	return count, true
}

func reportPackages(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Packages"))
	if size := clean.DirSize("/var/cache/apt/archives"); size > 0 {
		fmt.Fprintln(w, ui.LineDo("apt cache: "+ui.FormatSize(size)))
	} else {
		fmt.Fprintln(w, ui.LineSkip("apt cache empty or unreadable"))
	}
	if count, ok := AutoremoveCount(); ok {
		fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("autoremove candidates: %d", count)))
	} else {
		fmt.Fprintln(w, ui.LineSkip("autoremove count not available"))
	}
}

func reportKernels(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Kernel"))
	cands := clean.KernelCandidates(2)
	if len(cands) == 0 {
		fmt.Fprintln(w, ui.LineOK("no old kernels detected"))
		return
	}
	fmt.Fprintln(w, ui.LineWarn(fmt.Sprintf("old kernels detected: %d (clean with `lm clean system --kernels`)", len(cands))))
	for i, c := range cands {
		if i >= 10 {
			break
		}
		fmt.Fprintln(w, ui.LineDo(c.Reason))
	}
}

// RebootRequired reports the Debian reboot flag file.
func RebootRequired() bool {
	_, err := os.Stat("/var/run/reboot-required")
	return err == nil
}

func reportReboot(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Reboot"))
	if RebootRequired() {
		fmt.Fprintln(w, ui.LineWarn("reboot required"))
	} else {
		fmt.Fprintln(w, ui.LineOK("no reboot required"))
	}
}

func reportDocker(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.Section("Docker"))
	if !docker.Available() {
		fmt.Fprintln(w, ui.LineSkip("docker not available"))
		return
	}
	if df, err := docker.SystemDF(); err == nil {
		for _, line := range strings.Split(df, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
	if stopped, err := docker.StoppedContainers(); err == nil {
		fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("stopped containers: %d", len(stopped))))
	}
	if dangling, unused, err := docker.UnusedImages(); err == nil {
		fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("dangling images: %d (%s)",
			len(dangling), ui.FormatSize(docker.SumImageSizes(dangling)))))
		fmt.Fprintln(w, ui.LineDo(fmt.Sprintf("unused images: %d (%s)",
			len(unused), ui.FormatSize(docker.SumImageSizes(unused)))))
	}
}
